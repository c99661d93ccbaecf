package site

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/heroslider"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/news"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/pagination"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/project"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/unit"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/schemaorg"
	"github.com/EstateCMS/EstateCMS/internal/web/navigation"
)

const (
	homeProjects = 6
	homeNews     = 3
)

func home() *navigation.Context {
	return navigation.NewContext("Home", "home", "").AddBreadcrumb("Home", "/", false)
}

// Home renders the landing page of the site.
func (s *Service) Home(c *fiber.Ctx) error {
	slides, err := heroslider.ListActive(s.deps.DB)
	if err != nil {
		return s.notFound(c, err)
	}

	projects, err := project.ListPublic(s.deps.DB, "", homeProjects)
	if err != nil {
		return s.notFound(c, err)
	}

	latest, err := news.ListPublished(s.deps.DB, 1, homeNews)
	if err != nil {
		return s.notFound(c, err)
	}

	nav := navigation.NewContext(s.settings(c).SiteTitle, "home", "home")

	return s.render(c, "site/home", nav, fiber.Map{
		"Slides":   slides,
		"Projects": projects,
		"News":     latest.Items,
	})
}

// Projects lists every project, optionally by status.
func (s *Service) Projects(c *fiber.Ctx) error {
	status := models.ProjectStatus(c.Query("status"))
	if status != models.ProjectResidential && status != models.ProjectCommercial {
		status = ""
	}

	projects, err := project.ListPublic(s.deps.DB, status, 0)
	if err != nil {
		return s.notFound(c, err)
	}

	nav := home().AddBreadcrumb("Projects", "/projects", true)
	nav.PageTitle = "Projects"
	nav.ActiveSection = "projects"

	return s.render(c, "site/projects", nav, fiber.Map{
		"Projects": projects,
		"Status":   string(status),
	})
}

// Project renders a project with its units.
func (s *Service) Project(c *fiber.Ctx) error {
	p, err := project.GetBySlug(s.deps.DB, c.Params("slug"))
	if err != nil || p.Slug == models.GeneralInquiriesSlug {
		if err == nil {
			err = project.ErrProjectNotFound
		}

		return s.notFound(c, err)
	}

	units, err := unit.ListByProject(s.deps.DB, p.ID, models.UnitActive, 1, pagination.MaxLimit)
	if err != nil {
		return s.notFound(c, err)
	}

	base := s.BaseURL(c)
	url := base + "/projects/" + p.Slug

	nav := home().
		AddBreadcrumb("Projects", "/projects", false).
		AddBreadcrumb(p.Name, "/projects/"+p.Slug, true)
	nav.PageTitle = p.Name
	nav.ActiveSection = "projects"

	listing := schemaorg.RealEstateListing(schemaorg.Listing{
		Name:        p.Name,
		Description: p.Description,
		URL:         url,
		Image:       p.MainImage,
		Locality:    p.Location,
		Price:       p.StartingPrice,
		DatePosted:  p.CreatedAt,
		Amenities:   p.Advantages,
	})

	return s.render(c, "site/project", nav, fiber.Map{
		"Project":     p,
		"Units":       units.Items,
		"Description": p.Description,
		"OGImage":     p.MainImage,
	}, listing)
}

// Unit renders a unit of a project.
func (s *Service) Unit(c *fiber.Ctx) error {
	d, err := unit.GetBySlug(s.deps.DB, c.Params("slug"), c.Params("unitSlug"))
	if err != nil {
		return s.notFound(c, err)
	}

	if d.Status == models.UnitDraft {
		return s.notFound(c, unit.ErrUnitNotFound)
	}

	projectURL := "/projects/" + d.ProjectSlug

	nav := home().
		AddBreadcrumb("Projects", "/projects", false).
		AddBreadcrumb(d.ProjectName, projectURL, false).
		AddBreadcrumb(d.Name, projectURL+"/units/"+d.Slug, true)
	nav.PageTitle = d.Name + " - " + d.ProjectName
	nav.ActiveSection = "projects"

	return s.render(c, "site/unit", nav, fiber.Map{
		"Unit":        d,
		"Description": d.Description,
		"OGImage":     d.MainImage,
	})
}

// News pages the published articles.
func (s *Service) News(c *fiber.Ctx) error {
	page, err := news.ListPublished(s.deps.DB, c.QueryInt("page", 1), news.DefaultLimit)
	if err != nil {
		return s.notFound(c, err)
	}

	nav := home().AddBreadcrumb("News", "/news", true)
	nav.PageTitle = "News"
	nav.ActiveSection = "news"

	return s.render(c, "site/news", nav, fiber.Map{
		"Page": page,
	})
}

// Article renders a published article.
func (s *Service) Article(c *fiber.Ctx) error {
	n, err := news.GetBySlug(s.deps.DB, c.Params("slug"), true)
	if err != nil {
		return s.notFound(c, err)
	}

	nav := home().
		AddBreadcrumb("News", "/news", false).
		AddBreadcrumb(n.Title, "/news/"+n.Slug, true)
	nav.PageTitle = n.Title
	nav.ActiveSection = "news"

	image := n.FeaturedImage
	if image == "" {
		image = ogImage(s.BaseURL(c), n.Title, n.Category)
	}

	return s.render(c, "site/article", nav, fiber.Map{
		"Article":     n,
		"Description": strings.TrimSpace(n.Description),
		"OGImage":     image,
	})
}
