package public

import (
	"github.com/merchant-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}
