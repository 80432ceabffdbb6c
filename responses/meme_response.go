package responses

import "github.com/labstack/echo/v4"

type MemeResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    *echo.Map `json:"data"`
}

type MemeListResponse struct {
	Status      int         `json:"status"`
	Message     string      `json:"message"`
	Items       interface{} `json:"items"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalMemes  int64       `json:"totalMemes"`
}
