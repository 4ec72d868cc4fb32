// Package swagger provides API documentation. Regenerate with
// `swag init -g cmd/server/server.go -o docs/swagger` after changing handler annotations.
package swagger

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
        "/api/health": {
            "get": {"tags": ["Health"], "summary": "Liveness", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.HealthResponse"}}}}
        },
        "/api/metrics/summary": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Metrics"], "summary": "Metrics summary", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/metrics.Summary"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/metrics/timeline": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Metrics"], "summary": "Monthly timeline", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/metrics.TimelinePoint"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/conversations": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "List conversations", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "pageSize", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/conversations/search": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Search conversations", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "pageSize", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/conversations/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Get conversation", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/conversations/contacts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Contacts"], "summary": "List contacts", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "pageSize", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/conversations/contacts/search": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Contacts"], "summary": "Search contacts", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "pageSize", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/conversations/contacts/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Contacts"], "summary": "Get contact", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Contact ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/transferred-leads": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Transferred Leads"], "summary": "List transferred leads", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "pageSize", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/transferred-leads/search": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Transferred Leads"], "summary": "Search transferred leads", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "pageSize", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/transferred-leads/pending-count": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Transferred Leads"], "summary": "Count leads awaiting a CRM id", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.CountResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        },
        "/api/transferred-leads/{id}/crm-id": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Transferred Leads"], "summary": "Assign a CRM id",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Lead ID", "name": "id", "in": "path", "required": true},
                    {"description": "CRM id", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/requests.UpdateCRMIDRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}}}
        }
    },
    "definitions": {
        "metrics.Summary": {"type": "object", "properties": {
            "totalConversations": {"type": "integer"},
            "transferredLeads": {"type": "integer"},
            "qualificationRate": {"type": "number"},
            "avgMessagesPerSession": {"type": "number"}}},
        "metrics.TimelinePoint": {"type": "object", "properties": {
            "month": {"type": "string"},
            "totalConversations": {"type": "integer"},
            "transferredLeads": {"type": "integer"},
            "qualificationRate": {"type": "number"}}},
        "requests.UpdateCRMIDRequest": {"type": "object", "properties": {"crmId": {"type": "string"}}},
        "responses.CountResponse": {"type": "object", "properties": {"count": {"type": "integer"}}},
        "responses.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "string"}}},
        "responses.HealthResponse": {"type": "object", "properties": {"status": {"type": "string"}, "timestamp": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Leads API",
	Description:      "Read and search API over conversational lead data",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
