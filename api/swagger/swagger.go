package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Register Share API",
        "description": "Share registry for class attendance snapshots with polling chat",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Share", "description": "Publish and view class snapshots"},
        {"name": "Chat", "description": "Class discussion attached to a share code"},
        {"name": "Authentication", "description": "Teacher accounts"},
        {"name": "Export", "description": "Register downloads"}
    ],
    "paths": {
        "/share": {
            "post": {
                "tags": ["Share"],
                "summary": "Publish a class snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShareSnapshot"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid class data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/view": {
            "get": {
                "tags": ["Share"],
                "summary": "Fetch a shared class by code",
                "parameters": [
                    {"name": "code", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Code expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/messages": {
            "post": {
                "tags": ["Chat"],
                "summary": "Post a chat message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Chat locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/messages/delete": {
            "post": {
                "tags": ["Chat"],
                "summary": "Delete a chat message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the sender or teacher", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code or message", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lock": {
            "post": {
                "tags": ["Chat"],
                "summary": "Lock or unlock the chat",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleLockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Teacher only", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/register": {
            "get": {
                "tags": ["Export"],
                "summary": "Export a month register as PDF or CSV",
                "parameters": [
                    {"name": "code", "in": "query", "required": true, "type": "string"},
                    {"name": "month", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Rendered register"},
                    "400": {"description": "Bad month or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "rollNo": {"type": "string"}
            }
        },
        "ChatMessage": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "senderId": {"type": "string"},
                "senderName": {"type": "string"},
                "content": {"type": "string"},
                "timestamp": {"type": "integer"},
                "type": {"type": "string", "enum": ["text", "image", "file"]},
                "fileUrl": {"type": "string"},
                "fileName": {"type": "string"}
            }
        },
        "ShareSnapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "students": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Student"}
                },
                "attendance": {"type": "object"},
                "holidays": {"type": "object"},
                "createdAt": {"type": "integer"},
                "shareCode": {"type": "string"},
                "messages": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ChatMessage"}
                },
                "isChatLocked": {"type": "boolean"},
                "schemaVersion": {"type": "integer"},
                "_sharedAt": {"type": "integer"}
            },
            "required": ["id", "name"]
        },
        "SendMessageRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"$ref": "#/definitions/ChatMessage"}
            },
            "required": ["code", "message"]
        },
        "DeleteMessageRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "messageId": {"type": "string"},
                "senderId": {"type": "string"}
            },
            "required": ["code", "messageId", "senderId"]
        },
        "ToggleLockRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "isLocked": {"type": "boolean"},
                "senderId": {"type": "string"}
            },
            "required": ["code", "isLocked", "senderId"]
        },
        "SignupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["name", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
