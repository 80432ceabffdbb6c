package responses

import "github.com/labstack/echo/v4"

type TemplateResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    *echo.Map `json:"data"`
}

// TemplateListResponse is the listing envelope with pagination metadata.
type TemplateListResponse struct {
	Status         int         `json:"status"`
	Message        string      `json:"message"`
	Items          interface{} `json:"items"`
	CurrentPage    int         `json:"currentPage"`
	TotalPages     int         `json:"totalPages"`
	TotalTemplates int64       `json:"totalTemplates"`
}
