package config

import "strings"

type Cors struct {
	file *fileSettings
}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	if _, ok := a["*"]; ok {
		return true
	}
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// GetAllowedOrigins reads CORS_ALLOWED_ORIGINS (comma separated). Defaults to any origin.
func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := c.file.Cors.AllowedOrigins
	if v := GetEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		origins = strings.Split(v, ",")
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	allowed := AllowedOrigins{}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = nullValue{}
		}
	}
	return allowed
}

func (Cors) GetAllowedMethods() string {
	return "GET,OPTIONS,PATCH,DELETE,POST,PUT"
}

func (Cors) GetAllowedHeaders() string {
	return "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version, Authorization"
}
