package controller

import (
	"net/http"

	"blogapi/web/middleware"
	"blogapi/web/service"

	"github.com/gin-gonic/gin"
)

// BlogPostController exposes public reads and role-gated writes on posts.
type BlogPostController struct {
	postService *service.BlogPostService
}

func NewBlogPostController(g *gin.RouterGroup, postService *service.BlogPostService) *BlogPostController {
	p := &BlogPostController{postService: postService}

	g.GET("/blog_posts", p.list)
	g.GET("/blog_posts/:id", p.get)
	g.POST("/blog_posts", middleware.AuthRequired(), p.create)
	g.PUT("/blog_posts/:id", middleware.AuthRequired(), p.update)
	g.DELETE("/blog_posts/:id", middleware.AuthRequired(), p.delete)

	return p
}

func (p *BlogPostController) list(c *gin.Context) {
	posts, err := p.postService.ListPosts()
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, posts)
}

func (p *BlogPostController) get(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	post, err := p.postService.GetPost(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, post)
}

type createPostForm struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (p *BlogPostController) create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !service.CanCreatePost(actor) {
		forbidden(c)
		return
	}

	var form createPostForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "title and content are required")
		return
	}

	post, err := p.postService.CreatePost(actor, form.Title, form.Content)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, post)
}

func (p *BlogPostController) update(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	post, err := p.postService.GetPost(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	if !service.CanEditOrDeletePost(middleware.CurrentUser(c), post) {
		forbidden(c)
		return
	}

	var upd service.PostUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		jsonMsg(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := p.postService.UpdatePost(id, upd)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, updated)
}

func (p *BlogPostController) delete(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	post, err := p.postService.GetPost(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	if !service.CanEditOrDeletePost(middleware.CurrentUser(c), post) {
		forbidden(c)
		return
	}

	if err := p.postService.DeletePost(id); err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, nil)
}
