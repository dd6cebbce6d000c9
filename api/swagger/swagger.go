package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Versioned weekly class timetable service with conflict detection",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Version lifecycle and grid reads"},
        {"name": "Mutations", "description": "Room and session edits"},
        {"name": "Exports", "description": "Document rendering"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/timetable/versions": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List versions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Save grid as new version",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/versions/{version}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get version with conflicts and stats",
                "parameters": [
                    {"name": "version", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete version",
                "parameters": [
                    {"name": "version", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/timetable/versions/{version}/finalize": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Promote version to selected",
                "parameters": [
                    {"name": "version", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/selected": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get selected timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/rooms": {
            "post": {
                "tags": ["Mutations"],
                "summary": "Add room to all weekdays",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/sessions": {
            "put": {
                "tags": ["Mutations"],
                "summary": "Update one cell",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Mutations"],
                "summary": "Clear one cell",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/import": {
            "post": {
                "tags": ["Mutations"],
                "summary": "Bulk-apply normalized session rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/versions/{version}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export version as CSV or PDF",
                "parameters": [
                    {"name": "version", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "Session": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "teacher": {"type": "string"},
                "section": {"type": "string"}
            }
        },
        "SaveTimetableRequest": {
            "type": "object",
            "properties": {
                "grid": {"type": "array", "items": {"type": "object"}}
            },
            "required": ["grid"]
        },
        "AddRoomRequest": {
            "type": "object",
            "properties": {
                "room": {"type": "string"},
                "mode": {"type": "string", "enum": ["NEW_VERSION", "IN_PLACE"]}
            },
            "required": ["room"]
        },
        "UpdateSessionRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "room": {"type": "string"},
                "time_slot": {"type": "string"},
                "session": {"$ref": "#/definitions/Session"},
                "mode": {"type": "string", "enum": ["NEW_VERSION", "IN_PLACE"]}
            },
            "required": ["day", "room", "time_slot", "session"]
        },
        "DeleteSessionRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "room": {"type": "string"},
                "time_slot": {"type": "string"},
                "mode": {"type": "string", "enum": ["NEW_VERSION", "IN_PLACE"]}
            },
            "required": ["day", "room", "time_slot"]
        },
        "ImportRequest": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"type": "object"}},
                "create_rooms": {"type": "boolean"},
                "mode": {"type": "string", "enum": ["NEW_VERSION", "IN_PLACE"]}
            },
            "required": ["rows"]
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
