// Package schemaorg builds schema.org JSON-LD documents for the public site.
package schemaorg

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"
	"time"
)

const (
	contextURL = "https://schema.org"
	inStock    = "https://schema.org/InStock"
)

// Thing is a JSON-LD node.
type Thing map[string]any

// Listing describes a project for RealEstateListing markup.
type Listing struct {
	Name        string
	Description string
	URL         string
	Image       string
	Locality    string
	Region      string
	Price       string
	Currency    string
	DatePosted  time.Time
	Amenities   []string
}

// RealEstateListing returns the markup of a project page.
func RealEstateListing(l Listing) Thing {
	currency := l.Currency
	if currency == "" {
		currency = "IDR"
	}

	address := Thing{
		"@type":           "PostalAddress",
		"addressLocality": l.Locality,
		"addressCountry":  "ID",
	}
	if l.Region != "" {
		address["addressRegion"] = l.Region
	}

	t := Thing{
		"@context":    contextURL,
		"@type":       "RealEstateListing",
		"name":        l.Name,
		"description": l.Description,
		"url":         l.URL,
		"image":       l.Image,
		"address":     address,
		"offers": Thing{
			"@type":         "Offer",
			"price":         l.Price,
			"priceCurrency": currency,
			"availability":  inStock,
		},
		"amenities": strings.Join(l.Amenities, ", "),
	}

	if !l.DatePosted.IsZero() {
		t["datePosted"] = l.DatePosted.Format(time.RFC3339)
	}

	return t
}

// Organization describes the site owner.
type Organization struct {
	Name        string
	URL         string
	Logo        string
	Telephone   string
	Description string
	SameAs      []string
}

// OrganizationThing returns Organization markup. Empty social links are dropped.
func OrganizationThing(o Organization) Thing {
	t := Thing{
		"@context": contextURL,
		"@type":    "Organization",
		"name":     o.Name,
		"url":      o.URL,
	}

	if o.Logo != "" {
		t["logo"] = o.Logo
	}

	if o.Description != "" {
		t["description"] = o.Description
	}

	if o.Telephone != "" {
		t["contactPoint"] = Thing{
			"@type":       "ContactPoint",
			"telephone":   o.Telephone,
			"contactType": "customer service",
		}
	}

	same := make([]string, 0, len(o.SameAs))

	for _, s := range o.SameAs {
		if s != "" {
			same = append(same, s)
		}
	}

	if len(same) > 0 {
		t["sameAs"] = same
	}

	return t
}

// QA is one question of an FAQ.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQPage returns FAQPage markup.
func FAQPage(items []QA) Thing {
	entities := make([]Thing, 0, len(items))

	for _, it := range items {
		entities = append(entities, Thing{
			"@type": "Question",
			"name":  it.Question,
			"acceptedAnswer": Thing{
				"@type": "Answer",
				"text":  it.Answer,
			},
		})
	}

	return Thing{
		"@context":   contextURL,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// Crumb is one breadcrumb level.
type Crumb struct {
	Name string
	URL  string
}

// BreadcrumbList returns breadcrumb markup, positions starting at 1.
func BreadcrumbList(crumbs []Crumb) Thing {
	items := make([]Thing, 0, len(crumbs))

	for i, c := range crumbs {
		items = append(items, Thing{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     c.URL,
		})
	}

	return Thing{
		"@context":        contextURL,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// Script renders things as JSON-LD script tags safe to embed in HTML.
func Script(things ...Thing) template.HTML {
	var buf bytes.Buffer

	for _, t := range things {
		raw, err := json.Marshal(t)
		if err != nil {
			continue
		}

		buf.WriteString(`<script type="application/ld+json">`)
		buf.Write(raw)
		buf.WriteString(`</script>`)
	}

	return template.HTML(buf.String()) //nolint:gosec
}
