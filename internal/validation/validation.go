package validation

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/duccv/student-service/internal/constant"
)

// Context keys under which Validate stores the bound values.
const (
	BodyKey   = "validatedBody"
	ParamsKey = "validatedParams"
	QueryKey  = "validatedQuery"
)

var validate = newValidator()

func isEmptyInterface[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t == reflect.TypeOf((*any)(nil)).Elem()
}

func abortInvalid(c *gin.Context, err error) {
	resData := constant.INVALID_REQUEST
	resData.Error = err.Error()
	c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, resData)
}

// Validate binds and checks the request body (B), path params (P) and query (Q).
// Pass `any` for the parts a route does not take.
func Validate[B any, P any, Q any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Body ---
		if !isEmptyInterface[B]() {
			var body B

			rawData, err := io.ReadAll(c.Request.Body)
			if err != nil {
				abortInvalid(c, err)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))

			if err := c.ShouldBindJSON(&body); err != nil {
				abortInvalid(c, err)
				return
			}
			if err := validate.Struct(body); err != nil {
				abortInvalid(c, err)
				return
			}

			// Restore the body so later handlers can still read it
			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))
			c.Set(BodyKey, body)
		}

		// --- Params ---
		if !isEmptyInterface[P]() {
			var params P

			originalParams := c.Params

			if err := c.ShouldBindUri(&params); err != nil {
				abortInvalid(c, err)
				return
			}
			if err := validate.Struct(params); err != nil {
				abortInvalid(c, err)
				return
			}

			c.Params = originalParams
			c.Set(ParamsKey, params)
		}

		// --- Query ---
		if !isEmptyInterface[Q]() {
			var query Q

			originalQuery := c.Request.URL.RawQuery
			originalValues, _ := url.ParseQuery(originalQuery)

			if err := c.ShouldBindQuery(&query); err != nil {
				abortInvalid(c, err)
				return
			}
			if err := validate.Struct(query); err != nil {
				abortInvalid(c, err)
				return
			}

			c.Request.URL.RawQuery = originalValues.Encode()
			c.Set(QueryKey, query)
		}

		c.Next()
	}
}

// Body returns the value stored by Validate. It panics if the route was not wrapped by Validate[B,...].
func Body[B any](c *gin.Context) B {
	return c.MustGet(BodyKey).(B)
}

func Params[P any](c *gin.Context) P {
	return c.MustGet(ParamsKey).(P)
}
