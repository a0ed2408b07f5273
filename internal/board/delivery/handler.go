package delivery

import (
	"errors"
	"net/http"

	boarddomain "mailboard-backend/internal/board/domain"
	boarddto "mailboard-backend/internal/board/dto"
	"mailboard-backend/internal/board/usecase"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardUsecase usecase.BoardUsecase
}

func NewBoardHandler(boardUsecase usecase.BoardUsecase) *BoardHandler {
	return &BoardHandler{
		boardUsecase: boardUsecase,
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, boarddomain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *BoardHandler) GetBoards(c *gin.Context) {
	userID := c.GetString("userID")

	boards, err := h.boardUsecase.GetBoards(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID := c.GetString("userID")

	var req boarddto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board := &boarddomain.Board{
		Name:        req.Name,
		Description: req.Description,
		URLSlug:     req.URLSlug,
		DomainList:  req.DomainList,
		Labels:      req.Labels,
		Keywords:    req.Keywords,
	}

	if err := h.boardUsecase.CreateBoard(userID, board); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	board, err := h.boardUsecase.GetBoard(userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	var req boarddto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board := &boarddomain.Board{
		ID:          boardID,
		Name:        req.Name,
		Description: req.Description,
		DomainList:  req.DomainList,
		Labels:      req.Labels,
		Keywords:    req.Keywords,
	}

	if err := h.boardUsecase.UpdateBoard(userID, board); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	if err := h.boardUsecase.DeleteBoard(userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "board deleted"})
}

func (h *BoardHandler) GetEmails(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")
	forceRefresh := c.Query("refresh") == "true"

	emails, err := h.boardUsecase.GetEmailsByBoard(c.Request.Context(), userID, boardID, forceRefresh)
	if err != nil {
		respondError(c, err)
		return
	}

	lastSynced, err := h.boardUsecase.GetLastSyncedAt(userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, boarddto.EmailsResponse{
		Emails:       emails,
		LastSyncedAt: lastSynced,
	})
}

func (h *BoardHandler) AddEmail(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	var req boarddto.AddEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.boardUsecase.AddEmailToBoard(c.Request.Context(), userID, boardID, req.MessageID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email added to board"})
}

func (h *BoardHandler) ClearEmails(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	if err := h.boardUsecase.ClearBoardCache(userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "board cache cleared"})
}

func (h *BoardHandler) GetColumns(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	columns, err := h.boardUsecase.GetColumns(userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *BoardHandler) CreateColumn(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	var req boarddto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	column := &boarddomain.BoardColumn{
		Title:    req.Title,
		Type:     req.Type,
		Settings: req.Settings,
	}

	if err := h.boardUsecase.CreateColumn(userID, boardID, column); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, column)
}

func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")
	columnID := c.Param("columnId")

	var req boarddto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	column := &boarddomain.BoardColumn{
		ID:       columnID,
		Title:    req.Title,
		Settings: req.Settings,
	}

	if err := h.boardUsecase.UpdateColumn(userID, boardID, column); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, column)
}

func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")
	columnID := c.Param("columnId")
	reassignTo := c.Query("reassign_to")

	if reassignTo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reassign_to is required"})
		return
	}

	if err := h.boardUsecase.DeleteColumn(userID, boardID, columnID, reassignTo); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "column deleted"})
}

func (h *BoardHandler) ReassignColumns(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")

	var req boarddto.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	columns := make([]*boarddomain.BoardColumn, len(req.Columns))
	for i, col := range req.Columns {
		columns[i] = &boarddomain.BoardColumn{
			ID:       col.ID,
			Title:    col.Title,
			Settings: col.Settings,
			ItemIDs:  col.ItemIDs,
		}
	}

	if err := h.boardUsecase.ReassignColumnsAndEmails(userID, boardID, columns); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "columns updated"})
}

func (h *BoardHandler) GetDomainStats(c *gin.Context) {
	userID := c.GetString("userID")

	stats, err := h.boardUsecase.GetDomainStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, boarddto.DomainStatsResponse{Domains: stats})
}

func (h *BoardHandler) SummarizeThread(c *gin.Context) {
	userID := c.GetString("userID")
	boardID := c.Param("id")
	messageID := c.Param("messageId")

	summary, err := h.boardUsecase.SummarizeThread(c.Request.Context(), userID, boardID, messageID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, boarddto.SummaryResponse{Summary: summary})
}
