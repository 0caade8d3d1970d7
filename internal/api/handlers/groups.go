package handlers

import (
	"net/http"

	"auction-pricer/internal/api/models"
	"auction-pricer/internal/model"

	"github.com/gin-gonic/gin"
)

// ListProductGroups handles GET /api/v1/product-groups: the groups the
// service can price and the rules that recognize them.
func ListProductGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"product_groups": []models.ProductGroupInfo{
			{
				Name:     string(model.GroupCylinder),
				SKUs:     model.CylinderSKUs(),
				Keywords: []string{"cylinder", "cylinders"},
			},
			{
				Name:     string(model.GroupValve),
				SKUs:     model.ValveSKUs(),
				Keywords: []string{"valve", "valves", "brass valve", "bronze valve"},
			},
		},
	})
}
