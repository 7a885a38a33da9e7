package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Workspace API",
        "description": "Dataset editing and validation console for the academic timetable service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Workspace",
            "description": "Dataset table editing per console session"
        },
        {
            "name": "Transfer",
            "description": "CSV upload, download and preview"
        },
        {
            "name": "Analytics",
            "description": "Statistics, exports and signed downloads"
        },
        {
            "name": "Metadata",
            "description": "Schemas and runtime type options"
        },
        {
            "name": "Mapping",
            "description": "Batch to year-level mapping"
        },
        {
            "name": "Timetable",
            "description": "Solver and timetable pass-through"
        },
        {
            "name": "Audit",
            "description": "Workspace mutation trail"
        }
    ],
    "paths": {
        "/workspaces": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Open a workspace session",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/CreateSessionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}": {
            "get": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Render the workspace view",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Close a workspace session",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/workspaces/{sessionID}/dataset": {
            "put": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Switch the active dataset",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectDatasetRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/reload": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Reload the active dataset",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/search": {
            "put": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Filter rows by a search term",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SearchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/sort": {
            "put": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Sort by a column, toggling direction",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SortRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/selection": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Toggle selection of all visible rows",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Clear the selection",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/selection/delete": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Ask to delete the selected rows",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/draft": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Open the add form",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Discard the add form",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/draft/field": {
            "put": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Set one draft field",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FieldRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/draft/submit": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Validate and create the draft record",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/RecordFieldsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/edit": {
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Discard inline edits",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/edit/field": {
            "put": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Set one edited field",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FieldRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/edit/submit": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Save the edited record",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/RecordFieldsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/records/{id}/select": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Toggle selection of a row",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/records/{id}/edit": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Start editing a row",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/records/{id}/delete": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Ask to delete a row",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/confirmation": {
            "post": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Accept the pending confirmation",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConfirmRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/confirmation/{id}": {
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Dismiss the pending confirmation",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/toast": {
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Dismiss the toast",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "id",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/message": {
            "delete": {
                "tags": [
                    "Workspace"
                ],
                "summary": "Dismiss the inline message",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/upload-panel": {
            "put": {
                "tags": [
                    "Transfer"
                ],
                "summary": "Open or close the upload panel",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UploadPanelRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/upload": {
            "post": {
                "tags": [
                    "Transfer"
                ],
                "summary": "Validate and upload a CSV",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "file",
                        "in": "formData",
                        "required": true,
                        "type": "file"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/download": {
            "get": {
                "tags": [
                    "Transfer"
                ],
                "summary": "Download the stored CSV",
                "produces": [
                    "text/csv"
                ],
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "CSV file",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/preview": {
            "post": {
                "tags": [
                    "Transfer"
                ],
                "summary": "Open the CSV preview",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/PreviewRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Transfer"
                ],
                "summary": "Change the preview row count",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PreviewRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Transfer"
                ],
                "summary": "Close the CSV preview",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/stats": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Statistics for the loaded dataset",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/export/csv": {
            "post": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Export the visible rows as CSV",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/workspaces/{sessionID}/export/report": {
            "post": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Export the statistics report as PDF",
                "parameters": [
                    {
                        "name": "sessionID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/stats/counts": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Row counts for every dataset",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/datasets/{dataset}/stats": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Statistics for a dataset",
                "parameters": [
                    {
                        "name": "dataset",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "batches",
                            "faculty",
                            "rooms",
                            "courses"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/datasets/{dataset}/metadata": {
            "get": {
                "tags": [
                    "Metadata"
                ],
                "summary": "Upstream metadata of a dataset",
                "parameters": [
                    {
                        "name": "dataset",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "batches",
                            "faculty",
                            "rooms",
                            "courses"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/datasets/{dataset}/statistics": {
            "get": {
                "tags": [
                    "Metadata"
                ],
                "summary": "Upstream statistics of a dataset",
                "parameters": [
                    {
                        "name": "dataset",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "batches",
                            "faculty",
                            "rooms",
                            "courses"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/downloads/{token}": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Download an export through its signed token",
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "403": {
                        "description": "Invalid or expired link",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schemas": {
            "get": {
                "tags": [
                    "Metadata"
                ],
                "summary": "Table schemas of every dataset",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metadata/types": {
            "get": {
                "tags": [
                    "Metadata"
                ],
                "summary": "Room and course type options",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metadata/refresh": {
            "post": {
                "tags": [
                    "Metadata"
                ],
                "summary": "Refresh cached type options",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/batch-year-mapping": {
            "get": {
                "tags": [
                    "Mapping"
                ],
                "summary": "Year identifier to level mapping",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Mapping"
                ],
                "summary": "Replace the whole mapping",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReplaceMappingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/batch-year-mapping/overview": {
            "get": {
                "tags": [
                    "Mapping"
                ],
                "summary": "Mapping entries with affected batches",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/batch-year-mapping/add": {
            "post": {
                "tags": [
                    "Mapping"
                ],
                "summary": "Add one mapping entry",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddMappingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/batch-year-mapping/{identifier}": {
            "delete": {
                "tags": [
                    "Mapping"
                ],
                "summary": "Remove one mapping entry",
                "parameters": [
                    {
                        "name": "identifier",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/solver-config": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Current solver configuration",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Replace the solver configuration",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timeslot-config": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Current time slot configuration",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Replace the time slot configuration",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timeslot-config/reset": {
            "post": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Restore default time slots",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Latest generated timetable",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Run the solver",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/{scope}/{id}": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Timetable of one batch, faculty member or room",
                "parameters": [
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "batch",
                            "faculty",
                            "room"
                        ]
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/audit": {
            "get": {
                "tags": [
                    "Audit"
                ],
                "summary": "Recent workspace mutations",
                "parameters": [
                    {
                        "name": "dataset",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/system/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Process counters",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "dataset": {
                    "type": "string",
                    "enum": [
                        "batches",
                        "faculty",
                        "rooms",
                        "courses"
                    ]
                }
            }
        },
        "SelectDatasetRequest": {
            "type": "object",
            "properties": {
                "dataset": {
                    "type": "string",
                    "enum": [
                        "batches",
                        "faculty",
                        "rooms",
                        "courses"
                    ]
                }
            },
            "required": [
                "dataset"
            ]
        },
        "SearchRequest": {
            "type": "object",
            "properties": {
                "term": {
                    "type": "string"
                }
            }
        },
        "SortRequest": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                }
            },
            "required": [
                "key"
            ]
        },
        "FieldRequest": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                },
                "value": {}
            },
            "required": [
                "key"
            ]
        },
        "RecordFieldsRequest": {
            "type": "object",
            "properties": {
                "fields": {
                    "type": "object"
                }
            }
        },
        "ConfirmRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                }
            },
            "required": [
                "id"
            ]
        },
        "UploadPanelRequest": {
            "type": "object",
            "properties": {
                "open": {
                    "type": "boolean"
                }
            }
        },
        "PreviewRequest": {
            "type": "object",
            "properties": {
                "rows": {
                    "type": "integer"
                }
            }
        },
        "AddMappingRequest": {
            "type": "object",
            "properties": {
                "yearIdentifier": {
                    "type": "string"
                },
                "yearLevel": {
                    "type": "integer"
                }
            },
            "required": [
                "yearIdentifier",
                "yearLevel"
            ]
        },
        "ReplaceMappingRequest": {
            "type": "object",
            "properties": {
                "yearIdentifierToLevel": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                }
            },
            "required": [
                "yearIdentifierToLevel"
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
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
