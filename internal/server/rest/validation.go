package rest

import (
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the "role" tag to gin's validator engine.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
				return models.ValidRole(fl.Field().String())
			})
		}
	})
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "role" {
				respondError(c, common.ErrInvalidRole, "")
				return false
			}
		}
		respondError(c, common.ErrMissingFields, "")
		return false
	}

	_ = c.Error(err)
	abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
	return false
}
