// Package apitest runs an in-memory marketplace API for tests.
//
// The server speaks the same wire contract as the real marketplace: JSON
// bodies, list endpoints wrapped in a named envelope, the raw token in the
// Authorization header, and {"message": ...} on every error.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Error messages returned by the server.
const (
	MsgNotLoggedIn      = "not logged in"
	MsgBadCredentials   = "wrong username or password"
	MsgUnknownUser      = "user does not exist"
	MsgUserExists       = "username already exists"
	MsgMissingFields    = "missing required fields"
	MsgProductNotFound  = "product not found"
	MsgFolderNotFound   = "favorite folder not found"
	MsgCommentNotFound  = "comment not found"
	MsgForbidden        = "not allowed"
	MsgAlreadySold      = "product already sold"
	MsgOwnProduct       = "cannot buy your own product"
	MsgKeywordRequired  = "keyword required"
	MsgUnsupportedImage = "unsupported file type"
)

// Call is one request the server received.
type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type user struct {
	info     types.UserInfo
	password string
}

type folder struct {
	types.FavoriteFolder
	owner string
	items []types.Favorite
}

// Server is a fake marketplace API. It is safe for concurrent use.
type Server struct {
	mu         sync.Mutex
	srv        *httptest.Server
	users      map[string]*user
	tokens     map[string]string
	products   []*types.Product
	categories []types.Category
	orders     map[string][]types.Order
	folders    []*folder
	comments   []types.Comment
	messages   []types.Message
	calls      []Call
	nextID     int
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:  make(map[string]*user),
		tokens: make(map[string]string),
		orders: make(map[string][]types.Order),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// BaseAddress returns the API root, suitable for types.Config.BaseAddress.
func (s *Server) BaseAddress() string {
	return s.srv.URL + "/api"
}

// AddUser registers a user directly.
func (s *Server) AddUser(name, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addUserLocked(name, password)
}

// IssueToken signs name in and returns the token, as a login would.
func (s *Server) IssueToken(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = name
	return token
}

// AddCategory adds a category with a numeric identifier.
func (s *Server) AddCategory(name string) types.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := types.ID(strconv.Itoa(len(s.categories) + 1))
	s.categories = append(s.categories, types.Category{ID: id, Name: name})
	return id
}

// AddProduct lists a product owned by seller and returns its id.
func (s *Server) AddProduct(seller, name string, price float64) types.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProductLocked(seller, types.ProductInput{Name: name, Price: price})
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// LastCall returns the most recent request.
func (s *Server) LastCall() Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	api.HandleFunc("/user", s.auth(s.selfInfo)).Methods(http.MethodGet)
	api.HandleFunc("/user/{id}", s.userInfo).Methods(http.MethodGet)
	api.HandleFunc("/update_user", s.auth(s.updateUser)).Methods(http.MethodPost)
	api.HandleFunc("/upload", s.upload).Methods(http.MethodPost)

	api.HandleFunc("/get_categories", s.getCategories).Methods(http.MethodGet)
	api.HandleFunc("/get_products", s.getProducts).Methods(http.MethodGet)
	api.HandleFunc("/search_products", s.searchProducts).Methods(http.MethodGet)
	api.HandleFunc("/product/{id}", s.productDetail).Methods(http.MethodGet)
	api.HandleFunc("/create_product", s.auth(s.createProduct)).Methods(http.MethodPost)
	api.HandleFunc("/modify_product", s.auth(s.modifyProduct)).Methods(http.MethodPost)
	api.HandleFunc("/delete_product/{id}", s.auth(s.deleteProduct)).Methods(http.MethodDelete)
	api.HandleFunc("/buy_product/{id}", s.auth(s.buyProduct)).Methods(http.MethodPost)
	api.HandleFunc("/get_orders", s.auth(s.getOrders)).Methods(http.MethodGet)

	api.HandleFunc("/favorite_folders", s.auth(s.getFolders)).Methods(http.MethodGet)
	api.HandleFunc("/create_favorite_folder", s.auth(s.createFolder)).Methods(http.MethodPost)
	api.HandleFunc("/modify_favorite_folder", s.auth(s.modifyFolder)).Methods(http.MethodPost)
	api.HandleFunc("/delete_favorite_folder/{id}", s.auth(s.deleteFolder)).Methods(http.MethodDelete)
	api.HandleFunc("/favorite_product", s.auth(s.favoriteProduct)).Methods(http.MethodPost)
	api.HandleFunc("/get_favorites/{folder_id}", s.auth(s.getFavorites)).Methods(http.MethodGet)
	api.HandleFunc("/delete_favorite/{folder_id}/product/{product_id}", s.auth(s.deleteFavorite)).Methods(http.MethodDelete)

	api.HandleFunc("/publish_comment", s.auth(s.publishComment)).Methods(http.MethodPost)
	api.HandleFunc("/get_comments/{id}", s.getComments).Methods(http.MethodGet)
	api.HandleFunc("/delete_comment/{id}", s.auth(s.deleteComment)).Methods(http.MethodDelete)
	api.HandleFunc("/send_msg", s.auth(s.sendMsg)).Methods(http.MethodPost)
	api.HandleFunc("/get_msgs", s.auth(s.getMsgs)).Methods(http.MethodGet)
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userName string)

// auth resolves the raw Authorization token to a user name.
func (s *Server) auth(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		name, ok := s.tokens[r.Header.Get("Authorization")]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusForbidden, MsgNotLoggedIn)
			return
		}
		h(w, r, name)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in types.Credentials
	if !decode(w, r, &in) {
		return
	}
	if in.Username == "" || in.Password == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[in.Username]
	if !ok {
		writeMessage(w, http.StatusNotFound, MsgUnknownUser)
		return
	}
	if u.password != in.Password {
		writeMessage(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}
	token := uuid.NewString()
	s.tokens[token] = in.Username
	writeJSON(w, http.StatusOK, types.LoginResult{Token: token, Message: "login succeeded"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in types.Credentials
	if !decode(w, r, &in) {
		return
	}
	if in.Username == "" || in.Password == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[in.Username]; exists {
		writeMessage(w, http.StatusConflict, MsgUserExists)
		return
	}
	s.addUserLocked(in.Username, in.Password)
	writeMessage(w, http.StatusCreated, "registered")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok || token == "" {
		writeMessage(w, http.StatusBadRequest, "token invalid or expired")
		return
	}
	delete(s.tokens, token)
	writeMessage(w, http.StatusOK, "logged out")
}

func (s *Server) selfInfo(w http.ResponseWriter, _ *http.Request, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	if !ok {
		writeMessage(w, http.StatusNotFound, MsgUnknownUser)
		return
	}
	writeJSON(w, http.StatusOK, u.info)
}

func (s *Server) userInfo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if fmt.Sprint(u.info["id"]) == id || u.info["user_name"] == id {
			writeJSON(w, http.StatusOK, u.info)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, MsgUnknownUser)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, name string) {
	var in types.UserUpdate
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	if !ok {
		writeMessage(w, http.StatusNotFound, MsgUnknownUser)
		return
	}
	info := u.info
	info["nickname"] = in.Nickname
	info["avatar_url"] = in.AvatarURL
	info["phone"] = in.Phone
	info["intro"] = in.Intro
	writeMessage(w, http.StatusOK, "profile updated")
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "no file")
		return
	}
	defer f.Close()
	if _, err := io.Copy(io.Discard, f); err != nil {
		writeMessage(w, http.StatusBadRequest, "no file")
		return
	}

	ext := strings.ToLower(hdr.Filename[strings.LastIndex(hdr.Filename, ".")+1:])
	switch ext {
	case "png", "jpg", "jpeg", "gif":
	default:
		writeMessage(w, http.StatusBadRequest, MsgUnsupportedImage)
		return
	}
	kind := r.FormValue("type")
	if kind == "" {
		kind = "common"
	}
	writeJSON(w, http.StatusCreated, types.Upload{
		URL:     fmt.Sprintf("%s/static/uploads/%s/%s.%s", s.srv.URL, kind, uuid.NewString(), ext),
		Message: "uploaded",
	})
}

func (s *Server) getCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Category ids go out as JSON numbers, like an auto-increment column.
	out := make([]map[string]any, len(s.categories))
	for i, c := range s.categories {
		n, _ := strconv.Atoi(c.ID.String())
		out[i] = map[string]any{"category_id": n, "category_name": c.Name}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out, "message": "ok"})
}

func (s *Server) getProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"products": s.productList(nil), "message": "ok"})
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeMessage(w, http.StatusBadRequest, MsgKeywordRequired)
		return
	}
	keyword = strings.ToLower(keyword)

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.productList(func(p *types.Product) bool {
		return p.Status == "active" &&
			(strings.Contains(strings.ToLower(p.Name), keyword) ||
				strings.Contains(strings.ToLower(p.Description), keyword))
	})
	writeJSON(w, http.StatusOK, map[string]any{"products": list, "count": len(list), "message": "ok"})
}

func (s *Server) productDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProduct(types.ID(mux.Vars(r)["id"]))
	if p == nil {
		writeMessage(w, http.StatusNotFound, MsgProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request, name string) {
	var in types.ProductInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" || in.Price == 0 {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.addProductLocked(name, in)
	writeJSON(w, http.StatusCreated, types.Ack{Message: "product created", ProductID: id})
}

func (s *Server) modifyProduct(w http.ResponseWriter, r *http.Request, name string) {
	var in types.ProductInput
	if !decode(w, r, &in) {
		return
	}
	if in.ID == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProduct(in.ID)
	if p == nil || p.SellerID.String() != name {
		writeMessage(w, http.StatusForbidden, MsgForbidden)
		return
	}
	p.Name, p.Price, p.ImageURL, p.Description, p.CategoryID = in.Name, in.Price, in.ImageURL, in.Description, in.CategoryID
	writeMessage(w, http.StatusOK, "product updated")
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request, name string) {
	id := types.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id && p.SellerID.String() == name {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeMessage(w, http.StatusOK, "product deleted")
			return
		}
	}
	writeMessage(w, http.StatusForbidden, MsgForbidden)
}

func (s *Server) buyProduct(w http.ResponseWriter, r *http.Request, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProduct(types.ID(mux.Vars(r)["id"]))
	switch {
	case p == nil:
		writeMessage(w, http.StatusNotFound, MsgProductNotFound)
		return
	case p.Status != "active":
		writeMessage(w, http.StatusConflict, MsgAlreadySold)
		return
	case p.SellerID.String() == name:
		writeMessage(w, http.StatusBadRequest, MsgOwnProduct)
		return
	}

	p.Status = "sold"
	order := types.Order{
		ID:           types.ID(uuid.NewString()),
		Status:       "paid",
		CreatedTime:  now(),
		ProductTitle: p.Name,
		ImageURL:     p.ImageURL,
		Price:        p.Price,
		SellerID:     p.SellerID,
	}
	s.orders[name] = append([]types.Order{order}, s.orders[name]...)
	writeJSON(w, http.StatusOK, types.Ack{Message: "purchased", OrderID: order.ID})
}

func (s *Server) getOrders(w http.ResponseWriter, _ *http.Request, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[name]
	if orders == nil {
		orders = []types.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "message": "ok"})
}

func (s *Server) getFolders(w http.ResponseWriter, _ *http.Request, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.FavoriteFolder{}
	for _, f := range s.folders {
		if f.owner == name {
			out = append(out, f.FavoriteFolder)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": out})
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request, name string) {
	var in types.FolderInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f := &folder{
		FavoriteFolder: types.FavoriteFolder{ID: types.ID(uuid.NewString()), Name: in.Name, CreatedAt: now()},
		owner:          name,
	}
	s.folders = append(s.folders, f)
	writeJSON(w, http.StatusCreated, types.Ack{Message: "folder created", ID: f.ID})
}

func (s *Server) modifyFolder(w http.ResponseWriter, r *http.Request, name string) {
	var in types.FolderInput
	if !decode(w, r, &in) {
		return
	}
	if in.ID == "" || in.Name == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.findFolder(in.ID, name)
	if f == nil {
		writeMessage(w, http.StatusNotFound, MsgFolderNotFound)
		return
	}
	f.Name = in.Name
	writeMessage(w, http.StatusOK, "folder renamed")
}

func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request, name string) {
	id := types.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.folders {
		if f.ID == id && f.owner == name {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			writeMessage(w, http.StatusOK, "folder deleted")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, MsgFolderNotFound)
}

func (s *Server) favoriteProduct(w http.ResponseWriter, r *http.Request, name string) {
	var in types.FavoriteInput
	if !decode(w, r, &in) {
		return
	}
	if in.ProductID == "" || in.FolderID == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.findFolder(in.FolderID, name)
	if f == nil {
		writeMessage(w, http.StatusNotFound, MsgFolderNotFound)
		return
	}
	for _, it := range f.items {
		if it.ProductID == in.ProductID {
			writeMessage(w, http.StatusOK, "already in folder")
			return
		}
	}
	p := s.findProduct(in.ProductID)
	if p == nil {
		writeMessage(w, http.StatusNotFound, MsgProductNotFound)
		return
	}
	f.items = append([]types.Favorite{{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CreatedTime: now(),
	}}, f.items...)
	writeMessage(w, http.StatusCreated, "favorited")
}

func (s *Server) getFavorites(w http.ResponseWriter, r *http.Request, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.findFolder(types.ID(mux.Vars(r)["folder_id"]), name)
	if f == nil {
		writeMessage(w, http.StatusNotFound, MsgFolderNotFound)
		return
	}
	items := append([]types.Favorite{}, f.items...)
	writeJSON(w, http.StatusOK, map[string]any{"favorites": items})
}

func (s *Server) deleteFavorite(w http.ResponseWriter, r *http.Request, name string) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.findFolder(types.ID(vars["folder_id"]), name)
	if f == nil {
		writeMessage(w, http.StatusForbidden, MsgForbidden)
		return
	}
	for i, it := range f.items {
		if it.ProductID.String() == vars["product_id"] {
			f.items = append(f.items[:i], f.items[i+1:]...)
			writeMessage(w, http.StatusOK, "favorite removed")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, MsgProductNotFound)
}

func (s *Server) publishComment(w http.ResponseWriter, r *http.Request, name string) {
	var in types.CommentInput
	if !decode(w, r, &in) {
		return
	}
	if in.ProductID == "" || in.Content == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}
	rate := in.Rate
	if rate == 0 {
		rate = 5
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append([]types.Comment{{
		ID:        types.ID(uuid.NewString()),
		UserID:    types.ID(name),
		ProductID: in.ProductID,
		Time:      now(),
		Rating:    rate,
		Content:   in.Content,
		Nickname:  s.displayNameLocked(name),
	}}, s.comments...)
	writeMessage(w, http.StatusCreated, "comment published")
}

func (s *Server) getComments(w http.ResponseWriter, r *http.Request) {
	id := types.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.Comment{}
	for _, c := range s.comments {
		if c.ProductID == id {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out, "message": "ok"})
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request, name string) {
	id := types.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.comments {
		if c.ID != id {
			continue
		}
		if c.UserID.String() != name {
			writeMessage(w, http.StatusForbidden, MsgForbidden)
			return
		}
		s.comments = append(s.comments[:i], s.comments[i+1:]...)
		writeMessage(w, http.StatusOK, "comment deleted")
		return
	}
	writeMessage(w, http.StatusNotFound, MsgCommentNotFound)
}

func (s *Server) sendMsg(w http.ResponseWriter, r *http.Request, name string) {
	var in types.MessageInput
	if !decode(w, r, &in) {
		return
	}
	if in.ReceiverID == "" || in.Content == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]types.Message{{
		ID:             types.ID(uuid.NewString()),
		SenderID:       types.ID(name),
		ReceiverID:     in.ReceiverID,
		Time:           now(),
		Content:        in.Content,
		SenderNickname: s.displayNameLocked(name),
	}}, s.messages...)
	writeMessage(w, http.StatusCreated, "sent")
}

func (s *Server) getMsgs(w http.ResponseWriter, _ *http.Request, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.Message{}
	for _, m := range s.messages {
		if m.SenderID.String() == name || m.ReceiverID.String() == name {
			m.IsMe = m.SenderID.String() == name
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (s *Server) addUserLocked(name, password string) {
	s.nextID++
	s.users[name] = &user{
		password: password,
		info: types.UserInfo{
			"id":          s.nextID,
			"user_name":   name,
			"nickname":    "",
			"avatar_url":  "",
			"phone":       "",
			"intro":       "",
			"create_time": now(),
		},
	}
}

func (s *Server) addProductLocked(seller string, in types.ProductInput) types.ID {
	p := &types.Product{
		ID:          types.ID(uuid.NewString()),
		Name:        in.Name,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		SellerID:    types.ID(seller),
		CreatedAt:   now(),
		Status:      "active",
	}
	p.SellerName = s.displayNameLocked(seller)
	s.products = append(s.products, p)
	return p.ID
}

func (s *Server) displayNameLocked(name string) string {
	if u, ok := s.users[name]; ok {
		return u.info.Name()
	}
	return ""
}

func (s *Server) productList(keep func(*types.Product) bool) []types.Product {
	out := []types.Product{}
	for _, p := range s.products {
		if keep == nil || keep(p) {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

func (s *Server) findProduct(id types.ID) *types.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) findFolder(id types.ID, owner string) *folder {
	for _, f := range s.folders {
		if f.ID == id && f.owner == owner {
			return f
		}
	}
	return nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return false
	}
	return true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func now() string {
	return time.Now().UTC().Format(time.DateTime)
}
