// Package docs holds the OpenAPI description of the reference finance
// service, registered with swag for /swagger/*.
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
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/change-password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Change password",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.changePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "string", "description": "income or expense", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.transactionListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create transaction",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.transactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.transactionEnvelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/transactions/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dashboardResponse"}}
                }
            }
        },
        "/api/transactions/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Update transaction",
                "parameters": [
                    {"type": "string", "description": "Transaction id", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.transactionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.transactionEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Delete transaction",
                "parameters": [
                    {"type": "string", "description": "Transaction id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.categoryListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create category",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.categoryEnvelope"}}
                }
            }
        },
        "/api/categories/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Delete category",
                "parameters": [
                    {"type": "string", "description": "Category id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.messageResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "password", "name", "email"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.changePasswordRequest": {
            "type": "object",
            "required": ["currentPassword", "newPassword"],
            "properties": {"currentPassword": {"type": "string"}, "newPassword": {"type": "string"}}
        },
        "handler.updateProfileRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "createdAt": {"type": "string"}}
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}
        },
        "handler.profileResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}
        },
        "handler.transactionRequest": {
            "type": "object",
            "required": ["type", "amount"],
            "properties": {"type": {"type": "string", "enum": ["income", "expense"]}, "amount": {"type": "number"}, "description": {"type": "string"}, "date": {"type": "string"}, "categoryId": {"type": "string"}}
        },
        "handler.transactionResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "type": {"type": "string"}, "amount": {"type": "number"}, "description": {"type": "string"}, "date": {"type": "string"}, "categoryId": {"type": "string"}}
        },
        "handler.summaryResponse": {
            "type": "object",
            "properties": {"totalIncome": {"type": "number"}, "totalExpense": {"type": "number"}, "balance": {"type": "number"}}
        },
        "handler.transactionListResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "transactions": {"type": "array", "items": {"$ref": "#/definitions/handler.transactionResponse"}}, "summary": {"$ref": "#/definitions/handler.summaryResponse"}}
        },
        "handler.transactionEnvelope": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "transaction": {"$ref": "#/definitions/handler.transactionResponse"}}
        },
        "handler.dashboardResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "summary": {"$ref": "#/definitions/handler.summaryResponse"}, "recentTransactions": {"type": "array", "items": {"$ref": "#/definitions/handler.transactionResponse"}}}
        },
        "domain.Category": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "type": {"type": "string"}, "icon": {"type": "string"}, "color": {"type": "string"}}
        },
        "handler.createCategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "type": {"type": "string"}, "icon": {"type": "string"}, "color": {"type": "string"}}
        },
        "handler.categoryListResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "categories": {"type": "array", "items": {"$ref": "#/definitions/domain.Category"}}}
        },
        "handler.categoryEnvelope": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "category": {"$ref": "#/definitions/domain.Category"}}
        }
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
	Title:            "Finance reference service",
	Description:      "Accounts, transactions and categories behind the finance gateway.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
