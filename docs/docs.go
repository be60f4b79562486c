// Package docs provides Swagger documentation for the Courtage API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Courtage API",
        "description": "Broker-facing insurance sales API.\n\n1. **Products** - Catalog of sellable products (auto, pack obsèques)\n2. **Contacts** - Prospect and client registry (lead inbox)\n3. **Sessions** - Guided sales wizard sessions driven by actions\n4. **Pricing** - Stateless premium simulation\n5. **Quotes** - Saved wizard snapshots with a lifecycle\n6. **Policies** - Contracts emitted from signed quotes",
        "contact": {
            "name": "API Support"
        },
        "version": "1.0.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/products": {
            "get": {
                "tags": ["Products"],
                "summary": "List the product catalog",
                "operationId": "listProducts",
                "responses": {
                    "200": {"description": "Catalog entries", "schema": {"type": "array", "items": {"$ref": "#/definitions/Product"}}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/products/{product_code}": {
            "get": {
                "tags": ["Products"],
                "summary": "Get a product by code",
                "operationId": "getProduct",
                "parameters": [
                    {"name": "product_code", "in": "path", "required": true, "type": "string", "enum": ["auto", "pack_obseques"]}
                ],
                "responses": {
                    "200": {"description": "Catalog entry", "schema": {"$ref": "#/definitions/Product"}},
                    "404": {"description": "Unknown product", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/contacts": {
            "get": {
                "tags": ["Contacts"],
                "summary": "Search the lead inbox",
                "operationId": "searchContacts",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Matches name, phone or email"},
                    {"name": "limit", "in": "query", "type": "integer", "default": 20}
                ],
                "responses": {
                    "200": {"description": "Matching summaries", "schema": {"type": "array", "items": {"$ref": "#/definitions/ContactSummary"}}}
                }
            },
            "post": {
                "tags": ["Contacts"],
                "summary": "Register a prospect or client",
                "description": "Phone numbers are normalized to E.164 before storage.",
                "operationId": "createContact",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactInput"}}
                ],
                "responses": {
                    "201": {"description": "Created contact", "schema": {"$ref": "#/definitions/Contact"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/contacts/{contact_id}": {
            "get": {
                "tags": ["Contacts"],
                "summary": "Get a contact",
                "operationId": "getContact",
                "parameters": [
                    {"name": "contact_id", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["prospect", "client"]}
                ],
                "responses": {
                    "200": {"description": "Contact record", "schema": {"$ref": "#/definitions/Contact"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "tags": ["Contacts"],
                "summary": "Update a contact",
                "operationId": "updateContact",
                "parameters": [
                    {"name": "contact_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated contact", "schema": {"$ref": "#/definitions/Contact"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open a guided sales session",
                "operationId": "createSession",
                "responses": {
                    "201": {"description": "New session at the product step", "schema": {"$ref": "#/definitions/Session"}}
                }
            }
        },
        "/sessions/{session_id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get a session with its wizard state",
                "operationId": "getSession",
                "parameters": [
                    {"name": "session_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Session", "schema": {"$ref": "#/definitions/Session"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Discard a session",
                "operationId": "deleteSession",
                "parameters": [
                    {"name": "session_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/sessions/{session_id}/actions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Apply a batch of wizard actions",
                "description": "Actions are tagged envelopes applied in order. Types: select_product, patch_client, patch_needs, patch_coverage, patch_obseques, set_document_provided, request_manual_review, mark_signed, next_step, prev_step, go_to_step, sub_next_step, sub_prev_step, apply_suggestion, reset_flow.",
                "operationId": "dispatchActions",
                "parameters": [
                    {"name": "session_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/ActionEnvelope"}}}
                ],
                "responses": {
                    "200": {"description": "Session after the batch", "schema": {"$ref": "#/definitions/Session"}},
                    "400": {"description": "Unknown action or bad payload", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/sessions/{session_id}/seed": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Seed client identification from a contact",
                "operationId": "seedSession",
                "parameters": [
                    {"name": "session_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeedRequest"}}
                ],
                "responses": {
                    "200": {"description": "Seeded session", "schema": {"$ref": "#/definitions/Session"}},
                    "404": {"description": "Session or contact not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/sessions/{session_id}/underwriting": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Evaluate the underwriting verdict",
                "operationId": "sessionUnderwriting",
                "parameters": [
                    {"name": "session_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rule verdicts, aggregate status and validation gate", "schema": {"$ref": "#/definitions/UnderwritingVerdict"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/pricing/auto": {
            "post": {
                "tags": ["Pricing"],
                "summary": "Price an auto risk",
                "operationId": "priceAuto",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AutoPricingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Premium breakdown, amounts in FCFA", "schema": {"$ref": "#/definitions/PremiumBreakdown"}}
                }
            }
        },
        "/pricing/obseques": {
            "post": {
                "tags": ["Pricing"],
                "summary": "Price a pack obsèques adhesion",
                "operationId": "priceObseques",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PackObsequesData"}}
                ],
                "responses": {
                    "200": {"description": "Premium and guaranteed capital", "schema": {"$ref": "#/definitions/PackObsequesBreakdown"}}
                }
            }
        },
        "/quotes": {
            "get": {
                "tags": ["Quotes"],
                "summary": "List quotes",
                "operationId": "listQuotes",
                "parameters": [
                    {"name": "contact_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["draft", "signed", "emitted", "expired"]},
                    {"name": "limit", "in": "query", "type": "integer", "default": 50}
                ],
                "responses": {
                    "200": {"description": "Quotes", "schema": {"type": "array", "items": {"$ref": "#/definitions/Quote"}}}
                }
            },
            "post": {
                "tags": ["Quotes"],
                "summary": "Save a session as a draft quote",
                "operationId": "saveQuote",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveQuoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Draft quote", "schema": {"$ref": "#/definitions/Quote"}},
                    "400": {"description": "No product selected", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/quotes/{quote_id}": {
            "get": {
                "tags": ["Quotes"],
                "summary": "Get a quote",
                "operationId": "getQuote",
                "parameters": [
                    {"name": "quote_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Quote", "schema": {"$ref": "#/definitions/Quote"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/quotes/{quote_id}:sign": {
            "post": {
                "tags": ["Quotes"],
                "summary": "Sign a draft quote",
                "description": "Blocked while the underwriting verdict is red or required documents are missing, and for expired drafts.",
                "operationId": "signQuote",
                "parameters": [
                    {"name": "quote_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Signed quote", "schema": {"$ref": "#/definitions/Quote"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Wrong status, expired, or blocked by underwriting", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies": {
            "get": {
                "tags": ["Policies"],
                "summary": "List policies",
                "operationId": "listPolicies",
                "parameters": [
                    {"name": "contact_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "cancelled", "expired"]},
                    {"name": "limit", "in": "query", "type": "integer", "default": 50},
                    {"name": "offset", "in": "query", "type": "integer", "default": 0}
                ],
                "responses": {
                    "200": {"description": "Policies with total count", "schema": {"$ref": "#/definitions/PolicyList"}}
                }
            },
            "post": {
                "tags": ["Policies"],
                "summary": "Emit a policy from a signed quote",
                "operationId": "emitPolicy",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Issued policy", "schema": {"$ref": "#/definitions/Policy"}},
                    "404": {"description": "Quote not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Quote not signed or already emitted", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies/{policy_id}": {
            "get": {
                "tags": ["Policies"],
                "summary": "Get a policy",
                "operationId": "getPolicy",
                "parameters": [
                    {"name": "policy_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Policy", "schema": {"$ref": "#/definitions/Policy"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies/number/{policy_number}": {
            "get": {
                "tags": ["Policies"],
                "summary": "Get a policy by contract number",
                "operationId": "getPolicyByNumber",
                "parameters": [
                    {"name": "policy_number", "in": "path", "required": true, "type": "string", "description": "e.g. POL-2026-000001"}
                ],
                "responses": {
                    "200": {"description": "Policy", "schema": {"$ref": "#/definitions/Policy"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string", "enum": ["auto", "pack_obseques"]},
                "category": {"type": "string", "enum": ["vie", "non-vie"]},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "ContactInput": {
            "type": "object",
            "required": ["type", "first_name", "last_name", "phone"],
            "properties": {
                "type": {"type": "string", "enum": ["prospect", "client"]},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string", "example": "77 123 45 67"},
                "email": {"type": "string"},
                "city": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "Contact": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string", "example": "+221771234567"},
                "email": {"type": "string"},
                "city": {"type": "string"},
                "source": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ContactSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "display_name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "object", "description": "Full wizard state: cursor, records per step, calculated premiums"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ActionEnvelope": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string", "example": "patch_needs"},
                "payload": {"type": "object"}
            }
        },
        "SeedRequest": {
            "type": "object",
            "required": ["contact_id"],
            "properties": {
                "contact_id": {"type": "string"},
                "contact_type": {"type": "string", "enum": ["prospect", "client"]}
            }
        },
        "UnderwritingVerdict": {
            "type": "object",
            "properties": {
                "rules": {"type": "array", "items": {"$ref": "#/definitions/UnderwritingRule"}},
                "status": {"type": "string", "enum": ["green", "yellow", "red"]},
                "canValidate": {"type": "boolean"}
            }
        },
        "UnderwritingRule": {
            "type": "object",
            "properties": {
                "ruleId": {"type": "string", "example": "vehicle_value"},
                "status": {"type": "string", "enum": ["green", "yellow", "red"]},
                "message": {"type": "string"},
                "requiresDocument": {"type": "string"},
                "requiresEscalation": {"type": "boolean"}
            }
        },
        "AutoPricingRequest": {
            "type": "object",
            "properties": {
                "risk": {"type": "object", "description": "Needs-analysis answers: vehicle, usage, bonus/malus, driver"},
                "coverage": {"type": "object", "description": "Plan tier, options, franchise, duration"}
            }
        },
        "PremiumBreakdown": {
            "type": "object",
            "description": "All amounts are whole FCFA",
            "properties": {
                "primeNette": {"type": "integer"},
                "fraisAccessoires": {"type": "integer"},
                "taxes": {"type": "integer"},
                "primeTTC": {"type": "integer"},
                "fga": {"type": "integer"},
                "cedeao": {"type": "integer"},
                "totalAPayer": {"type": "integer"}
            }
        },
        "PackObsequesData": {
            "type": "object",
            "properties": {
                "formule": {"type": "string", "enum": ["bronze", "argent", "or"]},
                "adhesionType": {"type": "string", "enum": ["individuelle", "famille", "famille_ascendant"]},
                "periodicite": {"type": "string", "enum": ["mensuelle", "trimestrielle", "semestrielle", "annuelle"]},
                "nombreEnfants": {"type": "integer"},
                "nombreAscendants": {"type": "integer"}
            }
        },
        "PackObsequesBreakdown": {
            "type": "object",
            "properties": {
                "primeTTC": {"type": "integer", "description": "Per-installment amount"},
                "primeTotale": {"type": "integer", "description": "Annual total"},
                "capitalGaranti": {"type": "integer"},
                "capitalParConjoint": {"type": "integer"},
                "capitalParEnfant": {"type": "integer"},
                "capitalParAscendant": {"type": "integer"}
            }
        },
        "SaveQuoteRequest": {
            "type": "object",
            "required": ["session_id"],
            "properties": {
                "session_id": {"type": "string"}
            }
        },
        "Quote": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "contact_id": {"type": "string"},
                "product": {"type": "string"},
                "state": {"type": "object"},
                "total_a_payer": {"type": "integer"},
                "status": {"type": "string", "enum": ["draft", "signed", "emitted", "expired"]},
                "created_at": {"type": "string", "format": "date-time"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "EmitRequest": {
            "type": "object",
            "required": ["quote_id"],
            "properties": {
                "quote_id": {"type": "string"}
            }
        },
        "Policy": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "number": {"type": "string", "example": "POL-2026-000001"},
                "quote_id": {"type": "string"},
                "product": {"type": "string"},
                "total_a_payer": {"type": "integer"},
                "status": {"type": "string", "enum": ["active", "cancelled", "expired"]},
                "effective_date": {"type": "string", "format": "date-time"},
                "expiry_date": {"type": "string", "format": "date-time"},
                "documents": {"type": "array", "items": {"type": "string"}}
            }
        },
        "PolicyList": {
            "type": "object",
            "properties": {
                "policies": {"type": "array", "items": {"$ref": "#/definitions/Policy"}},
                "total": {"type": "integer"}
            }
        },
        "ProblemDetails": {
            "type": "object",
            "description": "RFC 7807 Problem Details",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Not Found"},
                "status": {"type": "integer", "example": 404},
                "detail": {"type": "string", "example": "Resource not found"}
            }
        }
    },
    "tags": [
        {"name": "Products", "description": "Sellable product catalog"},
        {"name": "Contacts", "description": "Prospect and client registry"},
        {"name": "Sessions", "description": "Guided sales wizard"},
        {"name": "Pricing", "description": "Stateless premium simulation"},
        {"name": "Quotes", "description": "Saved quote lifecycle"},
        {"name": "Policies", "description": "Issued contracts"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Courtage API",
	Description:      "Broker-facing insurance sales API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
