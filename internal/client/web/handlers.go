package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/furnistore/internal/client/api"
	"github.com/dmitrijs2005/furnistore/internal/client/models"
	"github.com/dmitrijs2005/furnistore/internal/client/session"
	"github.com/dmitrijs2005/furnistore/internal/common"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type sessionView struct {
	State      string       `json:"state"`
	User       *models.User `json:"user,omitempty"`
	IsAdmin    bool         `json:"is_admin"`
	IsStaff    bool         `json:"is_staff"`
	IsCustomer bool         `json:"is_customer"`
	Redirects  int          `json:"login_redirects"`
}

func (s *Server) view() sessionView {
	snap := s.rt.Session.Snapshot()
	return sessionView{
		State:      snap.State.String(),
		User:       snap.User,
		IsAdmin:    snap.IsAdmin(),
		IsStaff:    snap.IsStaff(),
		IsCustomer: snap.IsCustomer(),
		Redirects:  s.notices.Redirects(),
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Sign in with POST /login {\"username\", \"password\"}.",
		"notices": s.notices.Drain(),
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if err := s.rt.Session.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": session.MsgLoginFailed})
		return
	}
	c.JSON(http.StatusOK, s.view())
}

func (s *Server) logout(c *gin.Context) {
	s.rt.Session.Logout(c.Request.Context(), false)
	c.Status(http.StatusNoContent)
}

func (s *Server) sessionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.view())
}

func (s *Server) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	res, err := s.rt.API.ListProducts(c.Request.Context(), page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.rt.API.ListOrders(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.rt.API.ListUsers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	cat, err := s.rt.API.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// fail maps an API error onto the console response. A 401 has already
// closed the session, so the browser is sent to the login page.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		c.Redirect(http.StatusFound, common.LoginPath)
	case errors.Is(err, api.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "store API unreachable"})
	case api.IsValidation(err) && errors.As(err, &apiErr):
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "store API error", "detail": apiErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
