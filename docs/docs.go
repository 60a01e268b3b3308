// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/health": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.HealthResponse"}}}}
        },
        "/api/auth/register": {
            "post": {"tags": ["Auth"], "summary": "Register", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.MessageResponse"}},
                    "400": {"description": "Invalid input or email already registered", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/api/auth/verify-email": {
            "post": {"tags": ["Auth"], "summary": "Verify email", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/auth.VerifyEmailRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.MessageResponse"}},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/api/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "403": {"description": "Email not verified", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/api/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Logout", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.MessageResponse"}}}}
        },
        "/api/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Current user", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.UserResponse"}},
                    "401": {"description": "Missing token", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/api/auth/google": {
            "get": {"tags": ["Auth"], "summary": "Google login",
                "responses": {
                    "307": {"description": "Redirect to Google"},
                    "503": {"description": "Google login not configured", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/api/auth/google/callback": {
            "get": {"tags": ["Auth"], "summary": "Google callback",
                "parameters": [
                    {"type": "string", "name": "code", "in": "query", "required": true},
                    {"type": "string", "name": "state", "in": "query", "required": true}
                ],
                "responses": {"307": {"description": "Redirect to the frontend"}}}
        },
        "/upload": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Meetings"], "summary": "Process a meeting recording",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "language", "in": "formData"},
                    {"type": "string", "description": "JSON array of {name, email, company}", "name": "participants", "in": "formData"},
                    {"type": "string", "name": "meetingId", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meeting.UploadResponse"}},
                    "400": {"description": "No file uploaded", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "403": {"description": "Meeting belongs to another user", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "409": {"description": "Meeting busy or already completed", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "AI processing failed", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "504": {"description": "AI service timed out", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/upload-whatsapp": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Meetings"], "summary": "Process a WhatsApp voice note",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "language", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meeting.UploadResponse"}},
                    "400": {"description": "No file uploaded", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/prepare": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Meetings"], "summary": "Prepare a meeting",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/meeting.PrepareRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meeting.PrepareResponse"}},
                    "400": {"description": "Missing topic or participants", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/meeting/{id}": {
            "get": {"tags": ["Meetings"], "summary": "Get a meeting", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meeting.MeetingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/api/history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Meetings"], "summary": "Meeting history", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/meeting.HistoryItem"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Database not available", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        },
        "/export-pdf/{meetingId}": {
            "get": {"tags": ["Reports"], "summary": "Export meeting report", "produces": ["application/pdf"],
                "parameters": [{"type": "string", "name": "meetingId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "Failed to generate PDF", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }}
        }
    },
    "definitions": {
        "common.ErrorResponse": {"type": "object", "properties": {
            "error": {"type": "string"}, "code": {"type": "string"},
            "details": {"type": "object", "additionalProperties": {"type": "string"}}}},
        "common.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "common.HealthResponse": {"type": "object", "properties": {"status": {"type": "string"}, "time": {"type": "string"}}},
        "auth.RegisterRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "auth.VerifyEmailRequest": {"type": "object", "required": ["token"], "properties": {"token": {"type": "string"}}},
        "auth.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "auth.UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}}},
        "auth.LoginResponse": {"type": "object", "properties": {
            "token": {"type": "string"}, "expires_in": {"type": "integer"}, "token_type": {"type": "string"},
            "user": {"$ref": "#/definitions/auth.UserResponse"}}},
        "entities.Participant": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "company": {"type": "string"}}},
        "entities.ParticipantResearch": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
            "company": {"type": "string"}, "researchData": {"type": "string"}, "researchedAt": {"type": "string"}}},
        "meeting.PrepareRequest": {"type": "object", "required": ["topic", "participants"], "properties": {
            "topic": {"type": "string"},
            "participants": {"type": "array", "items": {"$ref": "#/definitions/entities.Participant"}}}},
        "meeting.UploadResponse": {"type": "object", "properties": {
            "meetingId": {"type": "string"}, "type": {"type": "string"}, "filename": {"type": "string"},
            "transcript": {"type": "string"}, "summary": {"type": "string"}, "status": {"type": "string"},
            "participants": {"type": "array", "items": {"$ref": "#/definitions/entities.ParticipantResearch"}}}},
        "meeting.PrepareResponse": {"type": "object", "properties": {
            "meetingId": {"type": "string"}, "brief": {"type": "string"},
            "talkingPoints": {"type": "array", "items": {"type": "string"}},
            "questions": {"type": "array", "items": {"type": "string"}},
            "icebreakers": {"type": "array", "items": {"type": "string"}},
            "researchResults": {"type": "array", "items": {"$ref": "#/definitions/entities.ParticipantResearch"}}}},
        "meeting.MeetingResponse": {"type": "object", "properties": {
            "meeting": {"type": "object"}, "audioUrl": {"type": "string"},
            "participants": {"type": "array", "items": {"$ref": "#/definitions/entities.ParticipantResearch"}}}},
        "meeting.HistoryItem": {"type": "object", "properties": {
            "meetingId": {"type": "string"}, "type": {"type": "string"}, "status": {"type": "string"},
            "filename": {"type": "string"}, "topic": {"type": "string"}, "transcript": {"type": "string"},
            "summary": {"type": "string"}, "timestamp": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Meeting Intelligence API",
	Description:      "Meeting transcription, summaries, participant research and PDF reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
