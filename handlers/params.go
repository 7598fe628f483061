package handlers

import (
	"strconv"
	"strings"

	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
)

// pageParams reads ?page= and ?limit=; bad values fall back to defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.DefaultPageLimit)))
	return page, limit
}

// boolParam parses an optional boolean query parameter.
func boolParam(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.NewValidation("%s must be true or false", name)
	}
	return &v, nil
}

// dateRangeParams reads ?from=&to= (or startDate/endDate) as a validated range.
func dateRangeParams(c *gin.Context) (models.DateRange, error) {
	from := firstQuery(c, "from", "startDate")
	to := firstQuery(c, "to", "endDate")

	var dr models.DateRange
	if from != "" {
		d, err := utils.NormalizeDate(from)
		if err != nil {
			return dr, apperr.NewValidation("%v", err)
		}
		dr.From = d
	}
	if to != "" {
		d, err := utils.NormalizeDate(to)
		if err != nil {
			return dr, apperr.NewValidation("%v", err)
		}
		dr.To = d
	}
	if dr.From != "" && dr.To != "" && dr.From > dr.To {
		return dr, apperr.NewValidation("from must not be after to")
	}
	return dr, nil
}

func firstQuery(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(c.Query(n)); v != "" {
			return v
		}
	}
	return ""
}

// bindJSON binds the body and writes a Validation error on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.WriteError(c, apperr.NewValidation("invalid input: %v", err))
		return false
	}
	return true
}
