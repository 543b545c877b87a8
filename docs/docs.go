// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/quotes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "Compute a landed-cost quote",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.QuoteRequestBody"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/quotes/export": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["quotes"],
                "summary": "Export a quote",
                "parameters": [
                    {"enum": ["csv", "xlsx"], "type": "string", "default": "csv", "in": "query", "name": "format"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.QuoteRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/classifications": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["classification"],
                "summary": "Classify a product",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ProductDescriptor"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}}}
            }
        },
        "/hs-codes/validate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["classification"],
                "summary": "Validate an HS code",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ValidateCodeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}}}
            }
        },
        "/hs-codes/mappings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["classification"],
                "summary": "Register a custom mapping",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CustomMapping"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.APIResponse"}}}
            }
        },
        "/logistics/options": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["logistics"],
                "summary": "Rank shipping options",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ShippingOptionsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}}}
            }
        },
        "/admin/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Catalog status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}}}
            }
        },
        "/admin/catalog/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reload the catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/domain.FieldError"}}
            }
        },
        "handler.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/handler.APIError"}
            }
        },
        "domain.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "domain.Destination": {
            "type": "object",
            "properties": {
                "country_code": {"type": "string", "example": "DE"},
                "province_code": {"type": "string"},
                "city": {"type": "string"},
                "postal_code": {"type": "string"}
            }
        },
        "domain.Dimensions": {
            "type": "object",
            "properties": {"length_cm": {"type": "number"}, "width_cm": {"type": "number"}, "height_cm": {"type": "number"}}
        },
        "domain.Preferences": {
            "type": "object",
            "properties": {
                "ddp_preferred": {"type": "boolean"},
                "use_low_value_scheme": {"type": "boolean"},
                "prioritize_cost": {"type": "boolean"},
                "prioritize_speed": {"type": "boolean"},
                "prioritize_reliability": {"type": "boolean"},
                "preferred_provider": {"type": "string"},
                "preferred_service": {"type": "string"}
            }
        },
        "domain.ProductDescriptor": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Cotton T-Shirt"},
                "description": {"type": "string"},
                "category_hint": {"type": "string"},
                "brand": {"type": "string"},
                "material": {"type": "string"},
                "usage": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.CustomMapping": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string", "example": "fidget cube"},
                "hs_code": {"type": "string", "example": "950300"},
                "description": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "handler.CartItemBody": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "sku-1001"},
                "quantity": {"type": "integer", "example": 2},
                "unit_price": {"type": "string", "example": "49.90"},
                "currency": {"type": "string", "example": "EUR"},
                "weight_kg": {"type": "number", "example": 0.35},
                "hs_code": {"type": "string", "example": "610910"},
                "product": {"$ref": "#/definitions/domain.ProductDescriptor"}
            }
        },
        "handler.QuoteRequestBody": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.CartItemBody"}},
                "destination": {"$ref": "#/definitions/domain.Destination"},
                "preferences": {"$ref": "#/definitions/domain.Preferences"},
                "package": {"$ref": "#/definitions/domain.Dimensions"}
            }
        },
        "handler.ValidateCodeRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {"code": {"type": "string", "example": "8517.12"}}
        },
        "handler.ShippingOptionsRequest": {
            "type": "object",
            "properties": {
                "package": {
                    "type": "object",
                    "properties": {
                        "weight_kg": {"type": "number"},
                        "declared_value": {"type": "string"},
                        "currency": {"type": "string"},
                        "dimensions": {"$ref": "#/definitions/domain.Dimensions"},
                        "destination": {"type": "string"}
                    }
                },
                "destination": {"type": "string", "example": "DE"},
                "preferences": {"$ref": "#/definitions/domain.Preferences"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Crossquote API",
	Description:      "Cross-border order quoting: HS classification, duty and VAT, and shipping recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
