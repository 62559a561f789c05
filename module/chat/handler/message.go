package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mid "DMProject/middleware"
	midsec "DMProject/middleware/security"
	"DMProject/module/chat/relay"
	"DMProject/tools/errs"
)

// Response is the API envelope. Code 0 is success; anything else is the
// coded error.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func ok(data any) Response {
	return Response{Code: 0, Msg: "ok", Data: data}
}

func fail(err error) Response {
	coded := errs.CodeOf(err)
	if coded == nil {
		coded = errs.ErrInternalServer
	}
	msg := coded.Msg
	if coded.Detail != "" {
		msg += ": " + coded.Detail
	}
	return Response{Code: coded.Code, Msg: msg}
}

// Handler exposes the query/mutation API over the same relay path the
// gateway uses, so authorization and persistence behave identically.
type Handler struct {
	Relay *relay.Relay
}

func New(r *relay.Relay) *Handler {
	return &Handler{Relay: r}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	mid.POST(r, "/api/message/send", h.SendMessage, mid.RouteOpt{IsAuth: true})
	mid.POST(r, "/api/message/delete", h.DeleteMessage, mid.RouteOpt{IsAuth: true})
	mid.POST(r, "/api/message/conversation", h.Conversation, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/message/:id", h.Message, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/messages", h.Messages, mid.RouteOpt{IsAuth: true})
}

type sendMessageReq struct {
	SenderID    string `json:"senderId" binding:"required"`
	RecipientID string `json:"recipientId" binding:"required"`
	Payload     string `json:"payload"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	caller, found := midsec.CallerFrom(c)
	if !found {
		c.JSON(http.StatusOK, fail(errs.ErrTokenInvalid.WrapMsg("no caller in context")))
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, fail(errs.ErrArgs.WrapMsg(err.Error())))
		return
	}
	m, err := h.Relay.Send(c.Request.Context(), caller, req.SenderID, req.RecipientID, req.Payload)
	if err != nil {
		c.JSON(http.StatusOK, fail(err))
		return
	}
	c.JSON(http.StatusOK, ok(m))
}

type deleteMessageReq struct {
	ID int64 `json:"id" binding:"required"`
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	caller, found := midsec.CallerFrom(c)
	if !found {
		c.JSON(http.StatusOK, fail(errs.ErrTokenInvalid.WrapMsg("no caller in context")))
		return
	}
	var req deleteMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, fail(errs.ErrArgs.WrapMsg(err.Error())))
		return
	}
	deleted, err := h.Relay.Delete(c.Request.Context(), caller, req.ID)
	if err != nil {
		c.JSON(http.StatusOK, fail(err))
		return
	}
	c.JSON(http.StatusOK, ok(gin.H{"deleted": deleted}))
}

type conversationReq struct {
	UserA string `json:"userA" binding:"required"`
	UserB string `json:"userB" binding:"required"`
}

func (h *Handler) Conversation(c *gin.Context) {
	caller, found := midsec.CallerFrom(c)
	if !found {
		c.JSON(http.StatusOK, fail(errs.ErrTokenInvalid.WrapMsg("no caller in context")))
		return
	}
	var req conversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, fail(errs.ErrArgs.WrapMsg(err.Error())))
		return
	}
	msgs, err := h.Relay.Conversation(c.Request.Context(), caller, req.UserA, req.UserB)
	if err != nil {
		c.JSON(http.StatusOK, fail(err))
		return
	}
	c.JSON(http.StatusOK, ok(msgs))
}

func (h *Handler) Message(c *gin.Context) {
	caller, found := midsec.CallerFrom(c)
	if !found {
		c.JSON(http.StatusOK, fail(errs.ErrTokenInvalid.WrapMsg("no caller in context")))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, fail(errs.ErrArgs.WrapMsg("id must be an integer")))
		return
	}
	m, err := h.Relay.Message(c.Request.Context(), caller, id)
	if err != nil {
		c.JSON(http.StatusOK, fail(err))
		return
	}
	c.JSON(http.StatusOK, ok(m))
}

func (h *Handler) Messages(c *gin.Context) {
	caller, found := midsec.CallerFrom(c)
	if !found {
		c.JSON(http.StatusOK, fail(errs.ErrTokenInvalid.WrapMsg("no caller in context")))
		return
	}
	msgs, err := h.Relay.Messages(c.Request.Context(), caller)
	if err != nil {
		c.JSON(http.StatusOK, fail(err))
		return
	}
	c.JSON(http.StatusOK, ok(msgs))
}
