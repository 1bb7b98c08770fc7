package models

import "time"

type CurrentTimeEntry struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

type CurrentTimeData struct {
	Entry CurrentTimeEntry `json:"entry"`
}

func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeEntry{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixMilli(),
		},
	}
}
