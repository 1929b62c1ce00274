package delivery

import (
	"errors"
	"net/http"
	"strconv"

	accountdomain "automail-backend/internal/account/domain"
	automationdomain "automail-backend/internal/automation/domain"
	automationdto "automail-backend/internal/automation/dto"
	"automail-backend/internal/automation/usecase"

	"github.com/gin-gonic/gin"
)

// FlowHandler handles automation flow HTTP requests
type FlowHandler struct {
	flowUsecase usecase.FlowUsecase
}

// NewFlowHandler creates a new FlowHandler
func NewFlowHandler(flowUsecase usecase.FlowUsecase) *FlowHandler {
	return &FlowHandler{
		flowUsecase: flowUsecase,
	}
}

// GetFlows returns all automation flows
// GET /api/flows
func (h *FlowHandler) GetFlows(c *gin.Context) {
	flows, err := h.flowUsecase.ListFlows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flows": flows})
}

// GetFlowByID returns a specific flow
// GET /api/flows/:id
func (h *FlowHandler) GetFlowByID(c *gin.Context) {
	flow, err := h.flowUsecase.GetFlow(c.Param("id"))
	if err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// CreateFlow creates a new automation flow
// POST /api/flows
func (h *FlowHandler) CreateFlow(c *gin.Context) {
	var req automationdto.CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow, err := h.flowUsecase.CreateFlow(&req)
	if err != nil {
		if errors.Is(err, accountdomain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, flow)
}

// UpdateFlow changes flow settings
// PUT /api/flows/:id
func (h *FlowHandler) UpdateFlow(c *gin.Context) {
	var req automationdto.UpdateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow, err := h.flowUsecase.UpdateFlow(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, automationdomain.ErrFlowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flow)
}

// DeleteFlow removes a flow and its execution history
// DELETE /api/flows/:id
func (h *FlowHandler) DeleteFlow(c *gin.Context) {
	if err := h.flowUsecase.DeleteFlow(c.Param("id")); err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Flow deleted"})
}

// RunFlow triggers a flow immediately
// POST /api/flows/:id/run
func (h *FlowHandler) RunFlow(c *gin.Context) {
	execution, err := h.flowUsecase.RunFlow(c.Param("id"))
	if err != nil {
		if errors.Is(err, automationdomain.ErrFlowBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": "Flow is already running"})
			return
		}
		if errors.Is(err, automationdomain.ErrFlowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
			return
		}
		// The run failed mid-flight; the audit record carries the details.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "execution": execution})
		return
	}
	c.JSON(http.StatusOK, execution)
}

// GetExecutions lists a flow's run history, newest first
// GET /api/flows/:id/executions
func (h *FlowHandler) GetExecutions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	executions, err := h.flowUsecase.ListExecutions(c.Param("id"), limit)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": executions})
}

func (h *FlowHandler) writeFlowError(c *gin.Context, err error) {
	if errors.Is(err, automationdomain.ErrFlowNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
