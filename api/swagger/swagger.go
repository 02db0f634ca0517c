package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Platform API",
        "description": "Video-course e-commerce and learning platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Accounts, sessions and tokens"},
        {"name": "Courses", "description": "Catalog browsing and course management"},
        {"name": "Learning", "description": "Learner dashboard and lesson navigation"},
        {"name": "Enrollments", "description": "Course access grants"},
        {"name": "Cart", "description": "Checkout and sales contact"},
        {"name": "Uploads", "description": "File uploads by purpose"},
        {"name": "Users", "description": "Admin user management"},
        {"name": "StudentWorks", "description": "Public works gallery"},
        {"name": "Testimonials", "description": "Homepage testimonials"},
        {"name": "Exports", "description": "Admin downloads"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/catalog": {
            "get": {
                "tags": ["Courses"],
                "summary": "Homepage catalog grouped by category",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "featured", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/learning/dashboard": {
            "get": {
                "tags": ["Learning"],
                "summary": "Learner dashboard with progress and navigation",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "section", "in": "query", "type": "integer"},
                    {"name": "lesson", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Course not enrolled"}
                }
            }
        },
        "/enrollments/me": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List my enrollments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cart/checkout": {
            "post": {
                "tags": ["Cart"],
                "summary": "Purchase courses",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already purchased"}
                }
            }
        },
        "/uploads/{purpose}": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Upload a file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "purpose", "in": "path", "required": true, "type": "string", "enum": ["thumbnail", "gallery", "resource", "lesson-video", "student-work-media"]},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Payload too large"},
                    "415": {"description": "Unsupported media type"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["first_name", "last_name", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CheckoutRequest": {
            "type": "object",
            "properties": {
                "course_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["course_ids"]
        },
        "CourseInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "category": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "description": {"type": "string"},
                "intro_video_id": {"type": "string"},
                "total_hours": {"type": "number"},
                "topics_covered": {"type": "integer"},
                "num_of_projects": {"type": "integer"},
                "size_gb": {"type": "number"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}},
                "gallery": {"type": "array", "items": {"$ref": "#/definitions/GalleryItem"}},
                "price": {"type": "number"},
                "course_contents": {"type": "string"},
                "featured": {"type": "boolean"}
            },
            "required": ["title", "category"]
        },
        "Section": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/Lesson"}}
            }
        },
        "Lesson": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "video_url": {"type": "string"}
            }
        },
        "GalleryItem": {
            "type": "object",
            "properties": {
                "media_kind": {"type": "string", "enum": ["image", "video"]},
                "url": {"type": "string"},
                "caption": {"type": "string"}
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
