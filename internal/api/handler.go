package api

import (
	"errors"
	"log"
	"net/http"

	"battleship/internal/area"
	"battleship/internal/game"
	"battleship/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	headerPlayerID   = "X-Player-ID"
	headerPlayerName = "X-Player-Name"
)

// Handler serves the REST API for areas.
type Handler struct {
	areas *area.Registry
}

// NewHandler creates a new handler
func NewHandler(areas *area.Registry) *Handler {
	return &Handler{areas: areas}
}

// Router builds the gin engine serving /api. allowedOrigins of ["*"]
// allows every origin.
func (h *Handler) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", headerPlayerID, headerPlayerName}
	r.Use(cors.New(config))

	api := r.Group("/api")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
		api.POST("/areas", h.createArea)
		api.GET("/areas", h.listAreas)

		areas := api.Group("/areas/:id")
		areas.Use(h.loadArea())
		{
			areas.GET("", h.getArea)
			areas.POST("/commands", h.handleCommand)
			areas.GET("/history", h.getHistory)
			areas.GET("/leaderboard", h.getLeaderboard)
		}
	}
	return r
}

func (h *Handler) loadArea() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, exists := h.areas.Get(c.Param("id"))
		if !exists {
			respondError(c, game.ErrAreaNotFound)
			c.Abort()
			return
		}
		c.Set("area", a)
		c.Next()
	}
}

func areaFrom(c *gin.Context) *area.Area {
	return c.MustGet("area").(*area.Area)
}

func (h *Handler) createArea(c *gin.Context) {
	a := h.areas.Create()
	log.Printf("[api] area %s created", a.ID())
	c.JSON(http.StatusCreated, gin.H{"id": a.ID()})
}

func (h *Handler) listAreas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"areas": h.areas.IDs()})
}

func (h *Handler) getArea(c *gin.Context) {
	c.JSON(http.StatusOK, areaFrom(c).Snapshot())
}

func (h *Handler) handleCommand(c *gin.Context) {
	player := models.Player{
		ID:       models.PlayerID(c.GetHeader(headerPlayerID)),
		Username: c.GetHeader(headerPlayerName),
	}
	if player.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": headerPlayerID + " header is required"})
		return
	}

	var cmd models.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a := areaFrom(c)
	result, err := a.HandleCommand(player, cmd)
	if err != nil {
		log.Printf("[api] area %s: %s %s rejected: %v", a.ID(), player.ID, cmd.Type, err)
		respondError(c, err)
		return
	}
	log.Printf("[api] area %s: %s %s", a.ID(), player.ID, cmd.Type)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getHistory(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewHistoryResult(areaFrom(c).History()))
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewLeaderboardResult(areaFrom(c).Leaderboard()))
}

// StatusFor maps an area or game error to an HTTP status.
func StatusFor(err error) int {
	var setupErr *game.SetupError
	switch {
	case errors.Is(err, game.ErrAreaNotFound):
		return http.StatusNotFound
	case errors.As(err, &setupErr),
		errors.Is(err, game.ErrInvalidCommand),
		errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrPlayerNotInGame):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrPlayerAlreadyInGame),
		errors.Is(err, game.ErrGameNotInProgress),
		errors.Is(err, game.ErrGameNotOver),
		errors.Is(err, game.ErrGameIDMismatch),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrPositionNotEmpty):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var setupErr *game.SetupError
	if errors.As(err, &setupErr) {
		body["ships"] = setupErr.Ships
	}
	c.JSON(StatusFor(err), body)
}
