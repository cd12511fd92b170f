// Package docs holds the OpenAPI description served under /swagger.
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
        "/api/health": {
            "get": {
                "summary": "Health Check",
                "tags": [
                    "health"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/health/ready": {
            "get": {
                "summary": "Readiness Check",
                "tags": [
                    "health"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/catalog": {
            "get": {
                "summary": "Get the merged widget catalogue",
                "tags": [
                    "settings"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/settings/catalog": {
            "get": {
                "summary": "Get the catalogue override",
                "tags": [
                    "settings"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "summary": "Replace the catalogue override",
                "tags": [
                    "settings"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/audit": {
            "get": {
                "summary": "List audit logs",
                "tags": [
                    "audit"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "module",
                        "in": "query",
                        "description": ""
                    },
                    {
                        "type": "string",
                        "name": "record_id",
                        "in": "query",
                        "description": ""
                    },
                    {
                        "type": "string",
                        "name": "action",
                        "in": "query",
                        "description": ""
                    },
                    {
                        "type": "string",
                        "name": "page",
                        "in": "query",
                        "description": ""
                    },
                    {
                        "type": "string",
                        "name": "limit",
                        "in": "query",
                        "description": ""
                    }
                ]
            }
        },
        "/api/dashboards": {
            "get": {
                "summary": "List dashboards",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "summary": "Save dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/dashboards/default": {
            "get": {
                "summary": "Get default dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/dashboards/layout": {
            "get": {
                "summary": "Get dashboard layout preference",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "summary": "Set dashboard layout preference",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/dashboards/reset": {
            "post": {
                "summary": "Reset dashboards",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/dashboards/import": {
            "post": {
                "summary": "Import a shared dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/dashboards/drafts": {
            "post": {
                "summary": "Open a draft dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "template",
                        "in": "query",
                        "description": "Standard dashboard name"
                    }
                ]
            }
        },
        "/api/dashboards/drafts/{name}/save": {
            "post": {
                "summary": "Save a draft dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/dashboards/{name}": {
            "get": {
                "summary": "Get dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    }
                ]
            },
            "put": {
                "summary": "Update dashboard items",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "summary": "Delete dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    }
                ]
            }
        },
        "/api/dashboards/{name}/rename": {
            "post": {
                "summary": "Rename dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/dashboards/{name}/default": {
            "post": {
                "summary": "Set default dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    }
                ]
            }
        },
        "/api/dashboards/{name}/share": {
            "post": {
                "summary": "Share dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    }
                ]
            }
        },
        "/api/dashboards/{name}/render": {
            "get": {
                "summary": "Render dashboard",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "type": "string",
                        "name": "start",
                        "in": "query",
                        "description": "First day (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "end",
                        "in": "query",
                        "description": "Last day (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "filter",
                        "in": "query",
                        "description": "Select filter"
                    },
                    {
                        "type": "string",
                        "name": "mask",
                        "in": "query",
                        "description": "YYYY-MM-DD, YYYY-MM or YYYY"
                    }
                ]
            }
        },
        "/api/dashboards/{name}/widgets": {
            "post": {
                "summary": "Add a catalogue widget",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/dashboards/{name}/widgets/{id}": {
            "patch": {
                "summary": "Update a dashboard item",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Item id"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "summary": "Remove a dashboard item",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Item id"
                    }
                ]
            }
        },
        "/api/exports/dashboards/{name}/widgets/{id}": {
            "get": {
                "summary": "Export widget data",
                "tags": [
                    "export"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Dashboard name"
                    },
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Item id"
                    },
                    {
                        "type": "string",
                        "name": "format",
                        "in": "query",
                        "description": "csv or xlsx"
                    },
                    {
                        "type": "string",
                        "name": "start",
                        "in": "query",
                        "description": "First day (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "end",
                        "in": "query",
                        "description": "Last day (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "filter",
                        "in": "query",
                        "description": "Select filter"
                    },
                    {
                        "type": "string",
                        "name": "mask",
                        "in": "query",
                        "description": "YYYY-MM-DD, YYYY-MM or YYYY"
                    }
                ]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Analytics Dashboard API",
	Description:      "Dashboards of stat, chart, timeline, heatmap, grid and multi-level pie widgets over the dataset service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
