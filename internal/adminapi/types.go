package adminapi

// FeedProduct is one product row from the admin sync feed. The category
// arrives as a bare name string here.
type FeedProduct struct {
	SourceID     int64   `json:"sourceId"`
	Title        string  `json:"title"`
	Price        string  `json:"price"`
	CentralStock int     `json:"centralStock"`
	Category     string  `json:"category"`
	Version      string  `json:"version"`
}

// FeedOrderItem is one line item in the order feed.
type FeedOrderItem struct {
	ProductID       int64  `json:"productId"`
	ProductName     string `json:"productName"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"priceAtPurchase"`
}

// FeedOrder is one order row from the admin sync feed.
type FeedOrder struct {
	SourceID      int64           `json:"sourceId"`
	CustomerEmail string          `json:"customerEmail"`
	TotalPrice    string          `json:"totalPrice"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
	Version       string          `json:"version"`
	Items         []FeedOrderItem `json:"items"`
}

// BrowseCategory is a category from the public browse endpoints, which
// carry both the source id and the name.
type BrowseCategory struct {
	SourceID int64  `json:"sourceId"`
	Name     string `json:"name"`
}

// BrowseProduct is a product from the public browse endpoints.
type BrowseProduct struct {
	SourceID     int64          `json:"sourceId"`
	Title        string         `json:"title"`
	Price        string         `json:"price"`
	CentralStock int            `json:"centralStock"`
	Category     BrowseCategory `json:"category"`
	Version      string         `json:"version"`
}

// TokenPair is the backend's access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterTraderRequest is the payload for backend trader registration.
type RegisterTraderRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
}

// RegisterTraderResponse carries the backend-assigned user id.
type RegisterTraderResponse struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// LoginResponse is the backend login result.
type LoginResponse struct {
	UserID int64 `json:"userId"`
	TokenPair
}

// CustomerOrderItem is one line of a forwarded storefront order.
type CustomerOrderItem struct {
	ProductSourceID int64 `json:"productId"`
	Quantity        int   `json:"quantity"`
}

// CustomerOrderRequest is the payload for forwarding a storefront
// checkout to the backend.
type CustomerOrderRequest struct {
	CustomerEmail string              `json:"customerEmail"`
	TraderID      int64               `json:"traderId"`
	Items         []CustomerOrderItem `json:"items"`
	FullName      string              `json:"fullName"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
}

// CustomerOrderResponse is the backend's checkout result.
type CustomerOrderResponse struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}
