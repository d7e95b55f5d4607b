package dto

// CreateVideoRequest is the multipart form of the admin create endpoint.
// The cover file arrives as the "cover" form file alongside these fields.
type CreateVideoRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"required,min=1,max=5000"`
	CategoryID  string `form:"categoryId" binding:"required,uuid"`
	Type        string `form:"type" binding:"omitempty,oneof=free premium"`
	SeriesID    *int64 `form:"seriesId" binding:"omitempty,min=1"`
	IsPromoted  bool   `form:"isPromoted"`
	MuxAssetID  string `form:"muxAssetId" binding:"required"`
}

// UpdateVideoRequest patches mutable fields, arriving as a multipart form so
// a replacement cover file can ride along. Nil pointers leave the stored
// value untouched.
type UpdateVideoRequest struct {
	Title       *string `form:"title" binding:"omitempty,min=1,max=200"`
	Description *string `form:"description" binding:"omitempty,min=1,max=5000"`
	CategoryID  *string `form:"categoryId" binding:"omitempty,uuid"`
	Type        *string `form:"type" binding:"omitempty,oneof=free premium"`
	SeriesID    *int64  `form:"seriesId" binding:"omitempty,min=1"`
	IsPromoted  *bool   `form:"isPromoted"`
}

// ListVideosQuery binds the filter query of the public list endpoint.
type ListVideosQuery struct {
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	SeriesID   *int64 `form:"seriesId" binding:"omitempty,min=1"`
	Type       string `form:"type" binding:"omitempty,oneof=free premium"`
	Promoted   *bool  `form:"promoted"`
	Search     string `form:"search" binding:"omitempty,max=200"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PerPage    int    `form:"perPage" binding:"omitempty,min=1,max=100"`
}

// CreateSeriesRequest creates a series container for episodes.
type CreateSeriesRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	CoverURL    string `json:"coverUrl" binding:"omitempty,url"`
}
