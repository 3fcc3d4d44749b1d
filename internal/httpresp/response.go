package httpresp

import "github.com/gin-gonic/gin"

// Paginated writes a page of rows under the given key along with the
// total/page/per_page envelope every listing endpoint shares.
func Paginated(c *gin.Context, key string, rows any, total int64, page, perPage int) {
	c.JSON(200, gin.H{
		key:        rows,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
