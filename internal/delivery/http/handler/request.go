package handler

import (
	"net/http"
	"strconv"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// pathID parses the UUID path variable name, writing a 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// listParams reads orderBy, order, page and size from the query string
func listParams(w http.ResponseWriter, r *http.Request) (dto.ListParams, bool) {
	q := r.URL.Query()
	params := dto.ListParams{
		OrderBy: q.Get("orderBy"),
		Order:   q.Get("order"),
	}

	for name, target := range map[string]**int{"page": &params.Page, "size": &params.Size} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, name+" must be an integer")
			return dto.ListParams{}, false
		}
		*target = &value
	}

	return params, true
}

func listMeta(meta *dto.PageMeta) *response.Meta {
	if meta == nil {
		return nil
	}
	return &response.Meta{
		Page:    meta.Page,
		Size:    meta.Size,
		Count:   meta.Count,
		OrderBy: meta.OrderBy,
		Order:   meta.Order,
	}
}
