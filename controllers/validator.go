package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/models"
	"github.com/ksivaceg/product-management-portal-backend/services"
)

// Query parameters reserved for paging and sorting; everything else is a
// filter on a product field.
var reservedQueryParams = map[string]bool{
	"page":      true,
	"limit":     true,
	"sortBy":    true,
	"sortOrder": true,
	"_":         true,
	"nextToken": true,
}

// Range operators accepted in field[op]=value filters.
var supportedRangeOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
	"ne":  "$ne",
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ParseProductQuery turns request query parameters into a validated product
// query. Malformed page/limit values fall back to defaults, unknown range
// operators are skipped, and filter values are coerced int-first so numeric
// fields match their stored representation.
func ParseProductQuery(c *gin.Context) *services.ProductQuery {
	query := &services.ProductQuery{
		Filter: bson.M{},
		Page:   defaultPage,
		Limit:  defaultLimit,
	}

	if raw := c.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			query.Page = page
		} else {
			zap.L().Warn("Invalid page parameter, using default", zap.String("page", raw))
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			switch {
			case limit < 1:
				query.Limit = 1
			case limit > maxLimit:
				query.Limit = maxLimit
			default:
				query.Limit = limit
			}
		} else {
			zap.L().Warn("Invalid limit parameter, using default", zap.String("limit", raw))
		}
	}

	query.SortBy = c.Query("sortBy")
	query.SortDescending = strings.ToLower(c.DefaultQuery("sortOrder", "asc")) == "desc"

	for key, values := range c.Request.URL.Query() {
		if reservedQueryParams[key] || len(values) == 0 {
			continue
		}
		value := values[0]

		// field[op]=value range filters
		if open := strings.Index(key, "["); open > 0 && strings.HasSuffix(key, "]") {
			field := key[:open]
			op := key[open+1 : len(key)-1]
			mongoOp, ok := supportedRangeOps[op]
			if !ok {
				zap.L().Warn("Unsupported filter operator, skipping",
					zap.String("field", field), zap.String("operator", op))
				continue
			}
			rangeFilter, _ := query.Filter[field].(bson.M)
			if rangeFilter == nil {
				rangeFilter = bson.M{}
			}
			rangeFilter[mongoOp] = models.Coerce(value).Value()
			query.Filter[field] = rangeFilter
			continue
		}

		// field=a,b,c becomes an $in filter
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			in := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				in = append(in, models.Coerce(strings.TrimSpace(p)).Value())
			}
			query.Filter[key] = bson.M{"$in": in}
			continue
		}

		query.Filter[key] = models.Coerce(value).Value()
	}

	return query
}

// bindingErrorFields extracts the failed field names from a gin binding
// error so logs say which fields were rejected, not just that binding failed.
func bindingErrorFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
