// Package docs registers the OpenAPI description of the local admin API
// served under /swagger/. Regenerate with `swag init -g cmd/stationery-admin/main.go`.
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
        "/api/session": {
            "get": {"tags": ["session"], "summary": "Current session", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}}
        },
        "/api/session/login": {
            "post": {"tags": ["session"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/session/register": {
            "post": {"tags": ["session"], "summary": "Sign up", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/session/logout": {
            "post": {"tags": ["session"], "summary": "Sign out", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/session/refresh": {
            "post": {"tags": ["session"], "summary": "Refresh credentials", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/profile": {
            "get": {"tags": ["session"], "summary": "Profile", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Identity"}}}}
        },
        "/api/dashboard": {
            "get": {"tags": ["dashboard"], "summary": "Dashboard", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Dashboard"}}}}
        },
        "/api/orders": {
            "get": {"tags": ["orders"], "summary": "List orders", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "active (default) or past", "name": "scope", "in": "query"},
                    {"type": "string", "description": "search by name, email, item or id", "name": "q", "in": "query"},
                    {"type": "string", "description": "order_time, cost, user_name, quantity", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc (default)", "name": "dir", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Order details", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/orders/{id}/complete": {
            "post": {"tags": ["orders"], "summary": "Complete order", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/printouts": {
            "get": {"tags": ["printouts"], "summary": "List printouts", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "scope", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "string", "name": "dir", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/printouts/{id}": {
            "get": {"tags": ["printouts"], "summary": "Printout details", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/printouts/{id}/complete": {
            "post": {"tags": ["printouts"], "summary": "Complete printout", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/printouts/{id}/download": {
            "get": {"tags": ["printouts"], "summary": "Download printout file", "produces": ["application/octet-stream"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/printout-files/{id}/download": {
            "get": {"tags": ["printouts"], "summary": "Download one attached file", "produces": ["application/octet-stream"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/items": {
            "get": {"tags": ["items"], "summary": "List items", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["items"], "summary": "Create item", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.itemRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}}}
        },
        "/api/items/{id}": {
            "put": {"tags": ["items"], "summary": "Update item", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.itemRequest"}}],
                "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["items"], "summary": "Delete item",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/api/items/{id}/stock": {
            "patch": {"tags": ["items"], "summary": "Toggle stock", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "api.errorResponse": {"type": "object", "properties": {
            "error": {"type": "string"},
            "fields": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}},
        "domain.Identity": {"type": "object", "properties": {
            "id": {"type": "integer"}, "email": {"type": "string"}, "name": {"type": "string"},
            "number": {"type": "string"}, "role": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.registerRequest": {"type": "object", "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"},
            "number": {"type": "string"}, "role": {"type": "string", "enum": ["ADMIN", "STAFF", "STUDENT"]}}},
        "handler.sessionResponse": {"type": "object", "properties": {
            "state": {"type": "string"}, "identity": {"$ref": "#/definitions/domain.Identity"}}},
        "handler.itemRequest": {"type": "object", "properties": {
            "item": {"type": "string"}, "price": {"type": "string"}, "in_stock": {"type": "boolean"}}},
        "service.Dashboard": {"type": "object", "properties": {
            "stats": {"type": "object"}, "active_orders": {"type": "array", "items": {"type": "object"}},
            "active_printouts": {"type": "array", "items": {"type": "object"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stationery Admin API",
	Description:      "Local backend for the campus stationery shop admin client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
