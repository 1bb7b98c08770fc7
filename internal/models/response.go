package models

import (
	"github.com/Kaouthar-hr/Move2See-Project/internal/clock"
)

// ResponseModel is the envelope wrapped around every API response.
type ResponseModel struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Data        any    `json:"data,omitempty"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// ResponseCurrentTime returns the envelope timestamp in epoch
// milliseconds.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

// NewOKResponse creates a successful response containing data.
func NewOKResponse(data any, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "OK",
		Version:     2,
	}
}

// NewCreatedResponse creates a 201 response containing data.
func NewCreatedResponse(data any, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        201,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "Created",
		Version:     2,
	}
}
