// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g src/userd/docs.go -o src/userd/docs
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Base"],
                "summary": "API discovery",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/base.APIInfo"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Issue an admin token",
                "parameters": [
                    {"description": "Admin credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.Credentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/auth/validate": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Validate a token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.ValidateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Base"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/base.HealthResponse"}}
                }
            }
        },
        "/v1/version": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Base"],
                "summary": "Server version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/base.VersionResponse"}}
                }
            }
        },
        "/v1/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"type": "boolean", "description": "Filter by active flag", "name": "active", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a user. The email must not be held by any other user.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "User to create", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/users.UserDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ValidationResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/v1/users/active": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List active users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserListResponse"}}
                }
            }
        },
        "/v1/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Only the fields present in the body are changed. PUT and PATCH behave the same.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ValidationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Only the fields present in the body are changed. PUT and PATCH behave the same.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ValidationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/v1/exports": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Exports"],
                "summary": "List exports",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/exports.ExportListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Exports"],
                "summary": "Export users",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/export.Result"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/v1/exports/{key}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Exports"],
                "summary": "Download an export",
                "parameters": [
                    {"type": "string", "description": "Export key, e.g. exports/users-1735689600000.json.xz", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/export.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        }
    },
    "definitions": {
        "auth.Credentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "secret"},
                "username": {"type": "string", "example": "admin"}
            }
        },
        "auth.TokenResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string", "example": "2025-01-02T10:30:00Z"},
                "token": {"type": "string"},
                "username": {"type": "string", "example": "admin"}
            }
        },
        "auth.ValidateResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string", "example": "2025-01-02T10:30:00Z"},
                "username": {"type": "string", "example": "admin"},
                "valid": {"type": "boolean", "example": true}
            }
        },
        "base.APIInfo": {
            "type": "object",
            "properties": {
                "api_versions": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "endpoints": {"type": "object"},
                "name": {"type": "string", "example": "userd"},
                "version": {"type": "string"}
            }
        },
        "base.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "timestamp": {"type": "string", "example": "2025-01-01T10:30:00Z"}
            }
        },
        "base.VersionResponse": {
            "type": "object",
            "properties": {
                "build_date": {"type": "string"},
                "git_commit": {"type": "string"},
                "go_version": {"type": "string"},
                "release_version": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "errors.Response": {
            "type": "object",
            "properties": {
                "details": {"type": "object", "additionalProperties": true},
                "error": {"type": "string", "example": "user.not_found"},
                "message": {"type": "string", "example": "User not found with id: 42"}
            }
        },
        "errors.ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "email"},
                "message": {"type": "string", "example": "must be a valid email address"}
            }
        },
        "errors.ValidationResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "validation.validation_failed"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/errors.ValidationError"}},
                "message": {"type": "string"}
            }
        },
        "export.Result": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "exported_at": {"type": "integer"},
                "key": {"type": "string", "example": "exports/users-1735689600000.json.xz"},
                "size": {"type": "integer"}
            }
        },
        "export.Snapshot": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "exported_at": {"type": "integer"},
                "users": {"type": "array", "items": {"$ref": "#/definitions/users.UserDTO"}}
            }
        },
        "exports.ExportListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 1},
                "exports": {"type": "array", "items": {"$ref": "#/definitions/storage.ObjectInfo"}}
            }
        },
        "storage.ObjectInfo": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "etag": {"type": "string"},
                "key": {"type": "string"},
                "last_modified": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "users.CreateUserRequest": {
            "type": "object",
            "required": ["email", "name", "phone"],
            "properties": {
                "email": {"type": "string", "example": "john@example.com"},
                "name": {"type": "string", "example": "John Doe"},
                "phone": {"type": "string", "example": "1234567890"}
            }
        },
        "users.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean", "example": false},
                "email": {"type": "string", "example": "john@example.com"},
                "name": {"type": "string", "example": "John Doe"},
                "phone": {"type": "string", "example": "0987654321"}
            }
        },
        "users.UserDTO": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean", "example": true},
                "created_at": {"type": "integer", "example": 1735689600000},
                "email": {"type": "string", "example": "john@example.com"},
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "John Doe"},
                "phone": {"type": "string", "example": "1234567890"},
                "updated_at": {"type": "integer", "example": 1735689600000}
            }
        },
        "users.UserListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 1},
                "users": {"type": "array", "items": {"$ref": "#/definitions/users.UserDTO"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Prefix the token with \"Bearer \".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "userd API",
	Description:      "User management REST API - create, read, update and delete user records with unique emails.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
