package types

// Product is a listing as returned by getProducts, searchProducts, and
// getProductDetail.
type Product struct {
	ID           ID      `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url,omitempty"`
	Description  string  `json:"description,omitempty"`
	CategoryID   ID      `json:"category_id,omitempty"`
	SellerID     ID      `json:"seller_id,omitempty"`
	SellerName   string  `json:"seller_name,omitempty"`
	SellerAvatar string  `json:"seller_avatar,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	Status       string  `json:"status,omitempty"`
}

// ProductInput is the body of createProduct and modifyProduct. ID is
// required by modifyProduct and ignored by createProduct.
type ProductInput struct {
	ID          ID      `json:"id,omitempty"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Description string  `json:"description,omitempty"`
	CategoryID  ID      `json:"category_id,omitempty"`
}

// Category is a product category.
type Category struct {
	ID   ID     `json:"category_id"`
	Name string `json:"category_name"`
}

// Order is one purchase made by the signed-in user.
type Order struct {
	ID           ID      `json:"order_id"`
	Status       string  `json:"order_status"`
	CreatedTime  string  `json:"created_time"`
	ProductTitle string  `json:"product_title"`
	ImageURL     string  `json:"img_url,omitempty"`
	Price        float64 `json:"price"`
	SellerID     ID      `json:"seller_id"`
}

// FavoriteFolder groups favorited products.
type FavoriteFolder struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Favorite is one product inside a favorite folder.
type Favorite struct {
	ProductID   ID      `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"img_url,omitempty"`
	CreatedTime string  `json:"created_time,omitempty"`
}

// Comment is a rated review attached to a product.
type Comment struct {
	ID        ID     `json:"comment_id"`
	UserID    ID     `json:"user_id"`
	ProductID ID     `json:"product_id"`
	Time      string `json:"time"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CommentInput is the body of publishComment. Rate defaults to 5 server-side
// when zero.
type CommentInput struct {
	ProductID ID     `json:"product_id"`
	Content   string `json:"content"`
	Rate      int    `json:"rate,omitempty"`
}

// Message is a direct message between two users.
type Message struct {
	ID             ID     `json:"message_id"`
	SenderID       ID     `json:"sender_id"`
	ReceiverID     ID     `json:"receiver_id"`
	Time           string `json:"time"`
	Content        string `json:"content"`
	SenderNickname string `json:"sender_nickname,omitempty"`
	SenderAvatar   string `json:"sender_avatar,omitempty"`
	IsMe           bool   `json:"is_me"`
}

// MessageInput is the body of sendMsg.
type MessageInput struct {
	ReceiverID ID     `json:"receiver_id"`
	Content    string `json:"content"`
}

// Ack is the generic acknowledgement body most mutating endpoints return.
// ID carries whatever identifier the endpoint created, if any.
type Ack struct {
	Message   string `json:"message"`
	ID        ID     `json:"id,omitempty"`
	ProductID ID     `json:"product_id,omitempty"`
	OrderID   ID     `json:"order_id,omitempty"`
}

// LoginResult is the body returned by a successful login.
type LoginResult struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Upload is the body returned by uploadFile.
type Upload struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// FolderInput is the body of createFavoriteFolder and modifyFavoriteFolder.
// ID is required by modifyFavoriteFolder only.
type FolderInput struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

// FavoriteInput is the body of favoriteProduct.
type FavoriteInput struct {
	ProductID ID `json:"product_id"`
	FolderID  ID `json:"folder_id"`
}
