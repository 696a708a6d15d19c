// Package seo rewrites the single-page-app shell with search-engine metadata
// and renders the sitemap and robots files.
package seo

import "strings"

// Site holds the brand facts that end up in every page.
type Site struct {
	URL                string
	Name               string
	ShortName          string
	TitleSuffix        string
	DefaultTitle       string
	DefaultDescription string
	OrgDescription     string
	Logo               string
	ImageAlt           string
	TwitterImageAlt    string
	ThemeColor         string
	Telephone          string
	Email              string
	Keywords           []string
	SameAs             []string
	Address            Address
	Latitude           float64
	Longitude          float64
}

type Address struct {
	Street   string
	Locality string
	Region   string
	Postal   string
	Country  string
}

// DefaultSite returns the Softwise Angola profile rooted at baseURL.
// An empty baseURL selects the public production address.
func DefaultSite(baseURL string) Site {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://softwise.onrender.com"
	}
	return Site{
		URL:                baseURL,
		Name:               "Softwise Angola",
		ShortName:          "Softwise",
		TitleSuffix:        "Softwise Angola - Desenvolvimento de Software",
		DefaultTitle:       "Softwise Angola | Desenvolvimento Web & Apps | Software House Luanda",
		DefaultDescription: "Softwise é a Software House líder em Angola. Desenvolvemos websites, apps mobile e sistemas de gestão com React, TypeScript e Bun. Solicite orçamento!",
		OrgDescription:     "Software House especializada em desenvolvimento web, apps mobile e sistemas de gestão em Luanda, Angola.",
		Logo:               baseURL + "/logo.jpeg",
		ImageAlt:           "Softwise Angola - Software House",
		TwitterImageAlt:    "Softwise Angola - Desenvolvimento de Software",
		ThemeColor:         "#006C93",
		Telephone:          "+244923000000",
		Email:              "hello@softwise.ao",
		Keywords: []string{
			"Software House Angola", "Desenvolvimento Web Luanda", "Criar App Angola",
			"Empresa Tecnologia Angola", "Programação Angola", "Developer Angola",
			"IT Services Luanda", "Tech Company Angola", "Agência Digital Luanda",
			"Desenvolvimento Web", "Criação de Sites", "Aplicativos Mobile",
			"Sistemas de Gestão", "E-commerce Angola", "API Development",
			"Backend Development", "Frontend Development", "Full Stack Development",
			"React Angola", "TypeScript", "Bun Runtime", "Node.js",
			"PostgreSQL", "Docker", "Tailwind CSS", "REST API",
			"Software Personalizado", "Consultoria TI", "Transformação Digital",
			"Soluções Empresariais", "ERP Angola", "CRM Angola",
		},
		SameAs: []string{
			"https://www.linkedin.com/company/softwise-angola",
			"https://www.instagram.com/softwise.ao",
			"https://github.com/softwise",
		},
		Address: Address{
			Street:   "Talatona",
			Locality: "Luanda",
			Region:   "Luanda",
			Postal:   "0000",
			Country:  "AO",
		},
		Latitude:  -8.838333,
		Longitude: 13.234444,
	}
}

// ProjectURL is the canonical detail page for slug.
func (s Site) ProjectURL(slug string) string {
	return s.URL + "/project/" + slug
}
