// Package catalog maps marketplace operation names to HTTP method, URI
// template, and body shape.
//
// Templates follow RFC 6570. Simple expressions such as {id} are required
// path parameters; form-style query expressions such as {?keyword} are
// optional and are dropped when unset.
package catalog

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/mesh-intelligence/bazaar/internal/pipeline"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// BodyKind describes what an endpoint sends in its request body.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyCredentials
	BodyMultipart
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyJSON:
		return "json"
	case BodyCredentials:
		return "credentials"
	case BodyMultipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// Endpoint is one catalog entry.
type Endpoint struct {
	Name     string
	Method   string
	Template string
	Body     BodyKind

	tmpl     *uritemplate.Template
	required []string
}

// Required returns the path parameters Build must be given.
func (e Endpoint) Required() []string {
	return slices.Clone(e.required)
}

// Params are the values substituted into an endpoint's template.
type Params map[string]string

// Endpoint names.
const (
	Login                = "login"
	Register             = "register"
	Logout               = "logout"
	GetSelfInfo          = "getSelfInfo"
	GetUserInfo          = "getUserInfo"
	UpdateUserInfo       = "updateUserInfo"
	UploadFile           = "uploadFile"
	GetProducts          = "getProducts"
	SearchProducts       = "searchProducts"
	GetProductDetail     = "getProductDetail"
	CreateProduct        = "createProduct"
	ModifyProduct        = "modifyProduct"
	DeleteProduct        = "deleteProduct"
	BuyProduct           = "buyProduct"
	GetCategories        = "getCategories"
	GetOrders            = "getOrders"
	GetFavoriteFolders   = "getFavoriteFolders"
	CreateFavoriteFolder = "createFavoriteFolder"
	ModifyFavoriteFolder = "modifyFavoriteFolder"
	DeleteFavoriteFolder = "deleteFavoriteFolder"
	FavoriteProduct      = "favoriteProduct"
	GetFavorites         = "getFavorites"
	DeleteFavorite       = "deleteFavorite"
	PublishComment       = "publishComment"
	GetComments          = "getComments"
	DeleteComment        = "deleteComment"
	SendMsg              = "sendMsg"
	GetMsgs              = "getMsgs"
)

var marketplace = []Endpoint{
	{Name: Login, Method: http.MethodPost, Template: "/login", Body: BodyCredentials},
	{Name: Register, Method: http.MethodPost, Template: "/register", Body: BodyCredentials},
	{Name: Logout, Method: http.MethodPost, Template: "/logout"},
	{Name: GetSelfInfo, Method: http.MethodGet, Template: "/user"},
	{Name: GetUserInfo, Method: http.MethodGet, Template: "/user/{id}"},
	{Name: UpdateUserInfo, Method: http.MethodPost, Template: "/update_user", Body: BodyJSON},
	{Name: UploadFile, Method: http.MethodPost, Template: "/upload", Body: BodyMultipart},
	{Name: GetProducts, Method: http.MethodGet, Template: "/get_products"},
	{Name: SearchProducts, Method: http.MethodGet, Template: "/search_products{?keyword}"},
	{Name: GetProductDetail, Method: http.MethodGet, Template: "/product/{id}"},
	{Name: CreateProduct, Method: http.MethodPost, Template: "/create_product", Body: BodyJSON},
	{Name: ModifyProduct, Method: http.MethodPost, Template: "/modify_product", Body: BodyJSON},
	{Name: DeleteProduct, Method: http.MethodDelete, Template: "/delete_product/{id}"},
	{Name: BuyProduct, Method: http.MethodPost, Template: "/buy_product/{id}"},
	{Name: GetCategories, Method: http.MethodGet, Template: "/get_categories"},
	{Name: GetOrders, Method: http.MethodGet, Template: "/get_orders"},
	{Name: GetFavoriteFolders, Method: http.MethodGet, Template: "/favorite_folders"},
	{Name: CreateFavoriteFolder, Method: http.MethodPost, Template: "/create_favorite_folder", Body: BodyJSON},
	{Name: ModifyFavoriteFolder, Method: http.MethodPost, Template: "/modify_favorite_folder", Body: BodyJSON},
	{Name: DeleteFavoriteFolder, Method: http.MethodDelete, Template: "/delete_favorite_folder/{id}"},
	{Name: FavoriteProduct, Method: http.MethodPost, Template: "/favorite_product", Body: BodyJSON},
	{Name: GetFavorites, Method: http.MethodGet, Template: "/get_favorites/{folder_id}"},
	{Name: DeleteFavorite, Method: http.MethodDelete, Template: "/delete_favorite/{folder_id}/product/{product_id}"},
	{Name: PublishComment, Method: http.MethodPost, Template: "/publish_comment", Body: BodyJSON},
	{Name: GetComments, Method: http.MethodGet, Template: "/get_comments/{id}"},
	{Name: DeleteComment, Method: http.MethodDelete, Template: "/delete_comment/{id}"},
	{Name: SendMsg, Method: http.MethodPost, Template: "/send_msg", Body: BodyJSON},
	{Name: GetMsgs, Method: http.MethodGet, Template: "/get_msgs"},
}

// Catalog is an immutable set of endpoints keyed by name.
type Catalog struct {
	endpoints map[string]Endpoint
}

// Default returns the marketplace catalog.
func Default() *Catalog {
	c, err := New(marketplace...)
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog, compiling every template.
func New(endpoints ...Endpoint) (*Catalog, error) {
	c := &Catalog{endpoints: make(map[string]Endpoint, len(endpoints))}
	for _, e := range endpoints {
		if e.Name == "" {
			return nil, fmt.Errorf("endpoint with template %q has no name", e.Template)
		}
		if _, dup := c.endpoints[e.Name]; dup {
			return nil, fmt.Errorf("endpoint %s: defined twice", e.Name)
		}
		tmpl, err := uritemplate.New(e.Template)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: parse template: %w", e.Name, err)
		}
		e.tmpl = tmpl
		e.required = requiredVars(e.Template)
		c.endpoints[e.Name] = e
	}
	return c, nil
}

// Lookup returns the endpoint registered under name.
func (c *Catalog) Lookup(name string) (Endpoint, error) {
	e, ok := c.endpoints[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", types.ErrUnknownEndpoint, name)
	}
	return e, nil
}

// Names returns every endpoint name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.endpoints))
	for name := range c.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build expands the named endpoint into a request descriptor. body is used
// as the JSON body for json and credentials endpoints; multipart endpoints
// take a *pipeline.MultipartForm.
func (c *Catalog) Build(name string, params Params, body any) (pipeline.Request, error) {
	e, err := c.Lookup(name)
	if err != nil {
		return pipeline.Request{}, err
	}

	vars := uritemplate.Values{}
	for k, v := range params {
		if v != "" {
			vars.Set(k, uritemplate.String(v))
		}
	}
	for _, k := range e.required {
		if params[k] == "" {
			return pipeline.Request{}, fmt.Errorf("%s: %w: %s", name, types.ErrMissingParam, k)
		}
	}

	expanded, err := e.tmpl.Expand(vars)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("%s: expand template: %w", name, err)
	}
	u, err := url.Parse(expanded)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("%s: parse expanded path: %w", name, err)
	}

	req := pipeline.Request{
		Endpoint: name,
		Method:   e.Method,
		Path:     u.EscapedPath(),
	}
	if u.RawQuery != "" {
		req.Query = u.Query()
	}

	switch e.Body {
	case BodyNone:
		if body != nil {
			return pipeline.Request{}, fmt.Errorf("%s: endpoint takes no body", name)
		}
	case BodyJSON, BodyCredentials:
		req.Body = body
	case BodyMultipart:
		form, ok := body.(*pipeline.MultipartForm)
		if !ok || form == nil {
			return pipeline.Request{}, fmt.Errorf("%s: multipart endpoint needs a *pipeline.MultipartForm, got %T", name, body)
		}
		req.Form = form
	}
	return req, nil
}

// requiredVars returns the variable names of simple {name} expressions.
// Operator expressions like {?q} are optional.
func requiredVars(template string) []string {
	var names []string
	for rest := template; ; {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return names
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return names
		}
		expr := rest[open+1 : open+end]
		rest = rest[open+end+1:]
		if expr == "" || strings.ContainsAny(expr[:1], "+#./;?&") {
			continue
		}
		for _, v := range strings.Split(expr, ",") {
			names = append(names, strings.TrimRight(v, "*"))
		}
	}
}
