// Package docs holds the OpenAPI description served by the Swagger UI.
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
		"/api/books": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Partial, case-insensitive match on every given field.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Books"
				],
				"summary": "Search books",
				"parameters": [
					{
						"type": "string",
						"description": "Title fragment",
						"name": "title",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Author fragment",
						"name": "author",
						"in": "query"
					},
					{
						"type": "string",
						"description": "ISBN fragment",
						"name": "isbn",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 0,
						"description": "Zero-based page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page size (max 1000)",
						"name": "size",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "Page of books",
						"schema": {
							"$ref": "#/definitions/dto.PageResponse-dto_BookResponse"
						}
					},
					"400": {
						"description": "Invalid paging parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Books"
				],
				"summary": "Register a book",
				"parameters": [
					{
						"description": "Book creation request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateBookRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created book",
						"schema": {
							"$ref": "#/definitions/dto.BookResponse"
						}
					},
					"400": {
						"description": "Invalid payload or ISBN already used",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/books/{bookID}": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Books"
				],
				"summary": "Retrieve a book",
				"parameters": [
					{
						"minimum": 1,
						"type": "integer",
						"description": "Book ID",
						"name": "bookID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Book details",
						"schema": {
							"$ref": "#/definitions/dto.BookResponse"
						}
					},
					"400": {
						"description": "Invalid book ID",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Book not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Books"
				],
				"summary": "Update title and author of a book",
				"parameters": [
					{
						"minimum": 1,
						"type": "integer",
						"description": "Book ID",
						"name": "bookID",
						"in": "path",
						"required": true
					},
					{
						"description": "Book update request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateBookRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Updated book",
						"schema": {
							"$ref": "#/definitions/dto.BookResponse"
						}
					},
					"400": {
						"description": "Invalid book ID or payload",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Book not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"Books"
				],
				"summary": "Delete a book",
				"parameters": [
					{
						"minimum": 1,
						"type": "integer",
						"description": "Book ID",
						"name": "bookID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "Book deleted"
					},
					"404": {
						"description": "Book not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Book still referenced by loans",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/books/{bookID}/loans": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Books"
				],
				"summary": "List loans of a book",
				"parameters": [
					{
						"minimum": 1,
						"type": "integer",
						"description": "Book ID",
						"name": "bookID",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"minimum": 0,
						"description": "Zero-based page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page size (max 1000)",
						"name": "size",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "Page of loans",
						"schema": {
							"$ref": "#/definitions/dto.PageResponse-dto_LoanResponse"
						}
					},
					"404": {
						"description": "Book not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/loans": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Returns loans of the given customer OR of the book with the given ISBN. Without any filter the page is empty.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Loans"
				],
				"summary": "Search loans",
				"parameters": [
					{
						"type": "string",
						"description": "Exact book ISBN",
						"name": "isbn",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Exact customer name",
						"name": "customer",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 0,
						"description": "Zero-based page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page size (max 1000)",
						"name": "size",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "Page of loans",
						"schema": {
							"$ref": "#/definitions/dto.PageResponse-dto_LoanResponse"
						}
					},
					"400": {
						"description": "Invalid paging parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Lends the book with the given ISBN to a customer. A book can only have one outstanding loan.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Loans"
				],
				"summary": "Lend a book",
				"parameters": [
					{
						"description": "Loan creation request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateLoanRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Identifier of the new loan",
						"schema": {
							"$ref": "#/definitions/dto.CreateLoanResponse"
						}
					},
					"400": {
						"description": "Invalid payload, unknown ISBN or book already loaned",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/loans/{loanID}": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Loans"
				],
				"summary": "Retrieve a loan",
				"parameters": [
					{
						"minimum": 1,
						"type": "integer",
						"description": "Loan ID",
						"name": "loanID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Loan details",
						"schema": {
							"$ref": "#/definitions/dto.LoanResponse"
						}
					},
					"400": {
						"description": "Invalid loan ID",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Loan not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Marks a loan as returned, or as outstanding again. Reopening fails while another customer holds the book.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Loans"
				],
				"summary": "Set the returned flag of a loan",
				"parameters": [
					{
						"minimum": 1,
						"type": "integer",
						"description": "Loan ID",
						"name": "loanID",
						"in": "path",
						"required": true
					},
					{
						"description": "Returned flag",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.ReturnedLoanRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Updated loan",
						"schema": {
							"$ref": "#/definitions/dto.LoanResponse"
						}
					},
					"400": {
						"description": "Invalid loan ID or payload, or book loaned by someone else",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Loan not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/token": {
			"post": {
				"description": "Issues a token valid for 24 hours for the given username.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Authentication"
				],
				"summary": "Generate a JWT bearer token",
				"parameters": [
					{
						"description": "username",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.TokenRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Token successfully generated",
						"schema": {
							"$ref": "#/definitions/dto.TokenResponse"
						}
					},
					"400": {
						"description": "Invalid request parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"dto.BookResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				},
				"author": {
					"type": "string"
				},
				"isbn": {
					"type": "string"
				}
			}
		},
		"dto.CreateBookRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"author": {
					"type": "string"
				},
				"isbn": {
					"type": "string"
				}
			}
		},
		"dto.UpdateBookRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"author": {
					"type": "string"
				}
			}
		},
		"dto.CreateLoanRequest": {
			"type": "object",
			"properties": {
				"isbn": {
					"type": "string"
				},
				"customer": {
					"type": "string"
				},
				"customerEmail": {
					"type": "string"
				}
			}
		},
		"dto.CreateLoanResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				}
			}
		},
		"dto.ReturnedLoanRequest": {
			"type": "object",
			"properties": {
				"returned": {
					"type": "boolean"
				}
			}
		},
		"dto.LoanResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"isbn": {
					"type": "string"
				},
				"customer": {
					"type": "string"
				},
				"customerEmail": {
					"type": "string"
				},
				"loanDate": {
					"type": "string"
				},
				"returned": {
					"type": "boolean"
				},
				"status": {
					"type": "string",
					"enum": [
						"OPEN",
						"CLOSED"
					]
				},
				"book": {
					"$ref": "#/definitions/dto.BookResponse"
				}
			}
		},
		"dto.ErrorResponse": {
			"type": "object",
			"properties": {
				"errors": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"dto.TokenRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				}
			}
		},
		"dto.TokenResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				}
			}
		},
		"dto.PageableResponse": {
			"type": "object",
			"properties": {
				"pageNumber": {
					"type": "integer"
				},
				"pageSize": {
					"type": "integer"
				}
			}
		},
		"dto.PageResponse-dto_BookResponse": {
			"type": "object",
			"properties": {
				"content": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.BookResponse"
					}
				},
				"totalElements": {
					"type": "integer"
				},
				"totalPages": {
					"type": "integer"
				},
				"pageable": {
					"$ref": "#/definitions/dto.PageableResponse"
				}
			}
		},
		"dto.PageResponse-dto_LoanResponse": {
			"type": "object",
			"properties": {
				"content": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.LoanResponse"
					}
				},
				"totalElements": {
					"type": "integer"
				},
				"totalPages": {
					"type": "integer"
				},
				"pageable": {
					"$ref": "#/definitions/dto.PageableResponse"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and the JWT token.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Library API",
	Description:      "Books, loans and late loan notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
