package handlers

import "github.com/gin-gonic/gin"

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.directory.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	ok(c, "", out)
}
