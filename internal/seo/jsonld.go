package seo

import (
	"encoding/json"

	"softwise/internal/domain"
)

const schemaContext = "https://schema.org"

type geoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type organization struct {
	Context       string          `json:"@context"`
	Type          []string        `json:"@type"`
	Name          string          `json:"name"`
	AlternateName string          `json:"alternateName"`
	Description   string          `json:"description"`
	Image         []string        `json:"image"`
	Logo          string          `json:"logo"`
	URL           string          `json:"url"`
	Telephone     string          `json:"telephone"`
	Email         string          `json:"email"`
	Address       postalAddress   `json:"address"`
	Geo           geoCoordinates  `json:"geo"`
	AreaServed    geoCircle       `json:"areaServed"`
	PriceRange    string          `json:"priceRange"`
	OpeningHours  []openingHours  `json:"openingHoursSpecification"`
	SameAs        []string        `json:"sameAs"`
	Rating        aggregateRating `json:"aggregateRating"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

type geoCircle struct {
	Type        string         `json:"@type"`
	GeoMidpoint geoCoordinates `json:"geoMidpoint"`
	GeoRadius   string         `json:"geoRadius"`
}

type openingHours struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

type aggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount string `json:"reviewCount"`
}

type website struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	Name            string       `json:"name"`
	URL             string       `json:"url"`
	PotentialAction searchAction `json:"potentialAction"`
}

type searchAction struct {
	Type       string `json:"@type"`
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

type breadcrumbList struct {
	Context string     `json:"@context"`
	Type    string     `json:"@type"`
	Items   []listItem `json:"itemListElement"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type softwareApplication struct {
	Context             string `json:"@context"`
	Type                string `json:"@type"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	ApplicationCategory string `json:"applicationCategory"`
	OperatingSystem     string `json:"operatingSystem"`
	Offers              offer  `json:"offers"`
	Author              author `json:"author"`
}

type offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

type author struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// structuredData returns the JSON-LD documents for a page, in render order.
func structuredData(site Site, p *domain.ProjectView) []any {
	center := geoCoordinates{Type: "GeoCoordinates", Latitude: site.Latitude, Longitude: site.Longitude}
	docs := []any{
		organization{
			Context:       schemaContext,
			Type:          []string{"LocalBusiness", "ProfessionalService"},
			Name:          site.Name,
			AlternateName: site.ShortName,
			Description:   site.OrgDescription,
			Image:         []string{site.Logo},
			Logo:          site.Logo,
			URL:           site.URL,
			Telephone:     site.Telephone,
			Email:         site.Email,
			Address: postalAddress{
				Type:            "PostalAddress",
				StreetAddress:   site.Address.Street,
				AddressLocality: site.Address.Locality,
				AddressRegion:   site.Address.Region,
				PostalCode:      site.Address.Postal,
				AddressCountry:  site.Address.Country,
			},
			Geo:        center,
			AreaServed: geoCircle{Type: "GeoCircle", GeoMidpoint: center, GeoRadius: "50000"},
			PriceRange: "$$$",
			OpeningHours: []openingHours{{
				Type:      "OpeningHoursSpecification",
				DayOfWeek: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
				Opens:     "08:00",
				Closes:    "18:00",
			}},
			SameAs: site.SameAs,
			Rating: aggregateRating{Type: "AggregateRating", RatingValue: "5", ReviewCount: "24"},
		},
		website{
			Context: schemaContext,
			Type:    "WebSite",
			Name:    site.Name,
			URL:     site.URL,
			PotentialAction: searchAction{
				Type:       "SearchAction",
				Target:     site.URL + "/search?q={search_term_string}",
				QueryInput: "required name=search_term_string",
			},
		},
		breadcrumbs(site, p),
	}
	if p != nil {
		docs = append(docs, softwareApplication{
			Context:             schemaContext,
			Type:                "SoftwareApplication",
			Name:                p.Title,
			Description:         p.Description,
			ApplicationCategory: "DeveloperApplication",
			OperatingSystem:     "Web, iOS, Android",
			Offers:              offer{Type: "Offer", Price: "0", PriceCurrency: "AOA"},
			Author:              author{Type: "Organization", Name: site.Name},
		})
	}
	return docs
}

func breadcrumbs(site Site, p *domain.ProjectView) breadcrumbList {
	items := []listItem{{Type: "ListItem", Position: 1, Name: "Início", Item: site.URL}}
	if p != nil {
		items = append(items,
			listItem{Type: "ListItem", Position: 2, Name: "Projetos", Item: site.URL + "/#projetos"},
			listItem{Type: "ListItem", Position: 3, Name: p.Title, Item: site.ProjectURL(p.Slug)},
		)
	}
	return breadcrumbList{Context: schemaContext, Type: "BreadcrumbList", Items: items}
}

// marshalScripts renders docs as ld+json script tags. encoding/json escapes
// '<' so a project title cannot close the script element.
func marshalScripts(docs []any) (string, error) {
	var out string
	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			return "", err
		}
		out += "\n      <script type=\"application/ld+json\">" + string(raw) + "</script>"
	}
	return out + "\n    ", nil
}
