package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

type tagBody struct {
	Body wire.Tag `json:"body"`
}

type tagListBody struct {
	Body []wire.Tag `json:"body"`
}

func tagFromRequest(id string, req wire.TagRequest) (wire.Tag, error) {
	if req.Value == "" {
		return wire.Tag{}, errors.New("value is required")
	}
	return wire.Tag{
		ID:                  id,
		Value:               req.Value,
		IsUnique:            req.IsUnique,
		ExpiresAfterMinutes: req.ExpiresAfterMinutes,
	}, nil
}

func registerTags(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
	}, func(ctx context.Context, _ *struct{}) (*tagListBody, error) {
		tags, err := r.ListTags(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if tags == nil {
			tags = []wire.Tag{}
		}
		return &tagListBody{Body: tags}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tag",
		Method:      http.MethodGet,
		Path:        "/tags/{id}",
		Summary:     "Get a tag",
	}, func(ctx context.Context, in *IDPath) (*tagBody, error) {
		t, err := r.GetTag(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &tagBody{Body: t}, nil
	})

	// Create accepts a single tag object or an array of them; an array comes
	// back as the array of created tags.
	huma.Register(api, huma.Operation{
		OperationID:   "create-tags",
		Method:        http.MethodPost,
		Path:          "/tags",
		Summary:       "Create one tag or a batch of tags",
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, func(ctx context.Context, in *struct {
		RawBody []byte `contentType:"application/json"`
	}) (*jsonBody, error) {
		trimmed := bytes.TrimSpace(in.RawBody)
		if len(trimmed) == 0 {
			return nil, handleError(errors.New("invalid body"))
		}
		if trimmed[0] == '[' {
			var reqs []wire.TagRequest
			if err := json.Unmarshal(trimmed, &reqs); err != nil {
				return nil, handleError(errors.New("invalid body: " + err.Error()))
			}
			created := make([]wire.Tag, 0, len(reqs))
			for _, req := range reqs {
				t, err := tagFromRequest(newID(), req)
				if err != nil {
					return nil, handleError(err)
				}
				if err := r.InsertTag(ctx, t); err != nil {
					return nil, handleError(err)
				}
				created = append(created, t)
			}
			return rawJSON(created)
		}
		var req wire.TagRequest
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return nil, handleError(errors.New("invalid body: " + err.Error()))
		}
		t, err := tagFromRequest(newID(), req)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.InsertTag(ctx, t); err != nil {
			return nil, handleError(err)
		}
		return rawJSON(t)
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tag",
		Method:      http.MethodPut,
		Path:        "/tags/{id}",
		Summary:     "Update a tag",
	}, func(ctx context.Context, in *struct {
		IDPath
		Body wire.TagRequest `json:"body"`
	}) (*tagBody, error) {
		if _, err := r.GetTag(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		t, err := tagFromRequest(in.ID, in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.UpdateTag(ctx, t); err != nil {
			return nil, handleError(err)
		}
		return &tagBody{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-tag",
		Method:        http.MethodDelete,
		Path:          "/tags/{id}",
		Summary:       "Delete a tag",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, in *IDPath) (*struct{}, error) {
		if err := r.DeleteTag(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
