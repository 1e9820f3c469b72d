package api

import (
	"net/http"
	"strconv"
)

const (
	// Размер страницы публичной коллекции по умолчанию.
	defaultPageSize = 1
	// Максимальный размер страницы, запрошенный через page_size.
	maxPageSize = 10
)

// PagedResponse — конверт пагинированного списка: общее количество,
// номера соседних страниц (null на краях) и сама страница результатов.
type PagedResponse struct {
	Count    int         `json:"count"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
	Results  interface{} `json:"results"`
}

// parsePagination извлекает page и page_size из параметров запроса.
// page_size ограничивается сверху значением maxPageSize.
func parsePagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = defaultPageSize
	} else if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// newPagedResponse собирает конверт страницы по общему количеству записей.
func newPagedResponse(results interface{}, totalCount, page, pageSize int) PagedResponse {
	resp := PagedResponse{
		Count:   totalCount,
		Results: results,
	}
	if page > 1 {
		previous := page - 1
		resp.Previous = &previous
	}
	if page*pageSize < totalCount {
		next := page + 1
		resp.Next = &next
	}
	return resp
}
