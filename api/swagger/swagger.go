package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EdTech Progress API",
        "description": "Multi-user educational progress tracker",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token issuance"},
        {"name": "Progress", "description": "Per-user completion status"},
        {"name": "Dashboard", "description": "Aggregated completion data"},
        {"name": "Admin", "description": "Account management and audit review"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/progress/status": {
            "get": {
                "tags": ["Progress"],
                "summary": "Read the status of one triple",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Progress"],
                "summary": "Update the status of one triple",
                "responses": {
                    "204": {"description": "Updated"},
                    "400": {"description": "Invalid payload"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary for the caller",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/users": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a user account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username already exists"}
                }
            },
            "get": {
                "tags": ["Admin"],
                "summary": "List user accounts",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/audit": {
            "get": {
                "tags": ["Admin"],
                "summary": "Full audit trail with usernames",
                "responses": {
                    "200": {"description": "OK"}
                }
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
