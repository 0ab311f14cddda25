package handlers

import (
	"immoportal/internal/news"

	"github.com/gofiber/fiber/v2"
)

type NewsHandler struct {
	News *news.Service
}

// GET /news
func (h *NewsHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	category := c.Query("category")
	articles := h.News.List(ctx, category)
	data := fiber.Map{
		"Articles":   articles,
		"Categories": h.News.Categories(ctx),
		"Category":   category,
	}
	// the newest article is featured on the unfiltered page
	if category == "" && len(articles) > 0 {
		data["Featured"] = articles[0]
		data["Articles"] = articles[1:]
	}
	return render(c, "news", data)
}

// GET /news/:id
func (h *NewsHandler) Article(c *fiber.Ctx) error {
	ctx := c.UserContext()
	a, ok := h.News.Get(ctx, c.Params("id"))
	if !ok {
		return notFound(c, "Article not found")
	}
	return render(c, "article", fiber.Map{"A": a, "Related": h.News.Related(ctx, a, 3)})
}
