// Package query translates raw query-string parameters into a MongoDB
// find: comparison operators embedded in keys (price[lte]=...) become
// store operators, select/sort become projection and sort documents, and
// page/limit become skip/limit plus the pagination envelope metadata.
package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 25
	maxLimit     = 100
)

// reserved keys never become filters.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// ListQuery is the shaped form of a listing request.
type ListQuery struct {
	Filter     bson.M
	Projection bson.D
	Sort       bson.D
	Page       int64
	Limit      int64
}

// Page describes one page in the pagination envelope.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Pagination carries prev/next descriptors; either is omitted when that
// page does not exist.
type Pagination struct {
	Prev *PageRef `json:"prev,omitempty"`
	Next *PageRef `json:"next,omitempty"`
}

// Parse shapes raw query parameters. Unrecognized keys become equality
// filters; keys of the form field[op] rewrite to the matching store
// operator.
func Parse(params map[string]string) ListQuery {
	q := ListQuery{
		Filter: bson.M{},
		Sort:   bson.D{{Key: "created_at", Value: -1}},
		Page:   1,
		Limit:  DefaultLimit,
	}

	for key, raw := range params {
		if reserved[key] {
			continue
		}
		field, op := splitOperator(key)
		if op == "" {
			q.Filter[field] = coerce(raw)
			continue
		}
		mongoOp := operators[op]
		cond, ok := q.Filter[field].(bson.M)
		if !ok {
			cond = bson.M{}
			q.Filter[field] = cond
		}
		if op == "in" {
			parts := strings.Split(raw, ",")
			vals := make([]any, len(parts))
			for i, p := range parts {
				vals[i] = coerce(strings.TrimSpace(p))
			}
			cond[mongoOp] = vals
		} else {
			cond[mongoOp] = coerce(raw)
		}
	}

	if sel := params["select"]; sel != "" {
		for _, f := range strings.Split(sel, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Projection = append(q.Projection, bson.E{Key: f, Value: 1})
			}
		}
	}

	if sort := params["sort"]; sort != "" {
		q.Sort = bson.D{}
		for _, f := range strings.Split(sort, ",") {
			if f = strings.TrimSpace(f); f == "" {
				continue
			}
			dir := 1
			if strings.HasPrefix(f, "-") {
				dir = -1
				f = f[1:]
			}
			q.Sort = append(q.Sort, bson.E{Key: f, Value: dir})
		}
	}

	if page, err := strconv.ParseInt(params["page"], 10, 64); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.ParseInt(params["limit"], 10, 64); err == nil && limit > 0 {
		if limit > maxLimit {
			limit = maxLimit
		}
		q.Limit = limit
	}

	return q
}

// FindOptions maps the shaped query onto driver options.
func (q ListQuery) FindOptions() *options.FindOptions {
	opts := options.Find().
		SetSort(q.Sort).
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	return opts
}

// Pagination computes the prev/next descriptors for a total match count.
func (q ListQuery) Pagination(total int64) Pagination {
	var p Pagination
	if q.Page > 1 {
		p.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	if q.Page*q.Limit < total {
		p.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	return p
}

// splitOperator breaks "field[op]" into its parts; op is empty for plain
// keys.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	candidate := key[open+1 : len(key)-1]
	if _, ok := operators[candidate]; !ok {
		return key, ""
	}
	return key[:open], candidate
}

// coerce converts numeric and boolean literals so store comparisons work
// on typed fields; everything else stays a string.
func coerce(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
