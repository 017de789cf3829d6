package globalconfig

import "encoding/json"

type CreateGlobalConfigRequest struct {
	Key         string          `json:"key" binding:"required,notblank,max=100"`
	Value       json.RawMessage `json:"value" binding:"required"`
	Description string          `json:"description"`
}

type UpdateGlobalConfigRequest struct {
	Value       json.RawMessage `json:"value"`
	Description *string         `json:"description"`
}

type GlobalConfigResponse struct {
	ID          string          `json:"id"`
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
