package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentorship Scheduling API",
        "description": "Availability, slot generation and meeting booking for the mentorship platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Availability rule management"},
        {"name": "Slots", "description": "Bookable slot generation"},
        {"name": "Meetings", "description": "Booking, cancellation and export"}
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
        "/availability": {
            "post": {
                "tags": ["Availability"],
                "summary": "Create an availability rule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AvailabilityRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/availability/me": {
            "get": {
                "tags": ["Availability"],
                "summary": "List the caller's availability rules",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/{id}": {
            "put": {
                "tags": ["Availability"],
                "summary": "Replace an availability rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AvailabilityRuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Rule belongs to another user"},
                    "404": {"description": "Rule not found"}
                }
            },
            "delete": {
                "tags": ["Availability"],
                "summary": "Delete or deactivate an availability rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "soft", "in": "query", "type": "boolean", "description": "Deactivate instead of deleting"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Rule belongs to another user"},
                    "404": {"description": "Rule not found"}
                }
            }
        },
        "/users/{id}/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "Generate bookable slots for a user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "type": "string", "description": "Window start date, YYYY-MM-DD"},
                    {"name": "end", "in": "query", "type": "string", "description": "Window end date, YYYY-MM-DD"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["flat", "grouped", "grouped_with_status"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window or mode"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/meetings": {
            "post": {
                "tags": ["Meetings"],
                "summary": "Book a meeting slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookMeetingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Booked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot unavailable or booking conflict"},
                    "412": {"description": "Connection not accepted"},
                    "422": {"description": "Role or participant mismatch"},
                    "429": {"description": "Rate limited"}
                }
            },
            "get": {
                "tags": ["Meetings"],
                "summary": "List the caller's meetings",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["scheduled", "cancelled", "completed"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/export": {
            "get": {
                "tags": ["Meetings"],
                "summary": "Export the caller's meeting agenda",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        },
        "/meetings/{id}/cancel": {
            "post": {
                "tags": ["Meetings"],
                "summary": "Cancel a scheduled meeting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Cancelled"},
                    "401": {"description": "Requester is not a participant"},
                    "404": {"description": "Meeting not found"},
                    "409": {"description": "Meeting is not in scheduled state"}
                }
            }
        }
    },
    "definitions": {
        "AvailabilityRuleRequest": {
            "type": "object",
            "required": ["kind"],
            "properties": {
                "kind": {"type": "string", "enum": ["weekly", "date_range", "single_dates"]},
                "days": {"type": "array", "items": {"type": "string"}},
                "time_ranges": {"type": "array", "items": {"$ref": "#/definitions/TimeRange"}},
                "date_windows": {"type": "array", "items": {"type": "object"}},
                "slot_duration_minutes": {"type": "integer"},
                "valid_from": {"type": "string", "format": "date-time"},
                "valid_to": {"type": "string", "format": "date-time"},
                "active": {"type": "boolean"}
            }
        },
        "TimeRange": {
            "type": "object",
            "properties": {
                "from": {"type": "string", "example": "09:00"},
                "to": {"type": "string", "example": "17:00"}
            }
        },
        "BookMeetingRequest": {
            "type": "object",
            "required": ["start_at", "end_at", "duration_minutes"],
            "properties": {
                "connection_id": {"type": "string"},
                "mentor_id": {"type": "string"},
                "mentee_id": {"type": "string"},
                "start_at": {"type": "string", "format": "date-time"},
                "end_at": {"type": "string", "format": "date-time"},
                "duration_minutes": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
