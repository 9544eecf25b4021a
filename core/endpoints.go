package core

import "net/url"

const (
	PathToken             = "/token/"
	PathTokenRefresh      = "/token/refresh/"
	PathUsers             = "/users/"
	PathCurrentUser       = "/users/me/"
	PathVacancies         = "/vacancies/"
	PathFeaturedVacancies = "/vacancies/featured/"
	PathCompanies         = "/companies/"
	PathMyCompany         = "/companies/me/"
	PathPopularCompanies  = "/companies/popular/"
	PathResumes           = "/resumes/"
	PathApplications      = "/applications/"
	PathCategories        = "/categories/"
	PathSkills            = "/skills/"
	PathContact           = "/contact/"
	PathHealth            = "/health/"
)

func vacancyPath(id string) string {
	return PathVacancies + url.PathEscape(id) + "/"
}

func vacancyApplyPath(id string) string {
	return vacancyPath(id) + "apply/"
}

func companyPath(id string) string {
	return PathCompanies + url.PathEscape(id) + "/"
}

func applicationStatusPath(id string) string {
	return PathApplications + url.PathEscape(id) + "/update_status/"
}
