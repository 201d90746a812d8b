package models

import "time"

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	PushToken    *string   `json:"push_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicProfile is the representation of a user visible to other users
type PublicProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Ad represents a marketplace listing
type Ad struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Sold        bool      `json:"sold"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// Image represents one image attached to an ad
type Image struct {
	ID        string    `json:"id"`
	AdID      string    `json:"ad_id"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat represents a conversation between two users.
// User1ID is always the lexicographically smaller id.
type Chat struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents one chat message
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification represents a system notification for a user
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	RelatedID *string   `json:"related_id,omitempty"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

// Purchase request status values
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// PurchaseRequest represents a buyer's request to purchase an ad
type PurchaseRequest struct {
	ID            string    `json:"id"`
	AdID          string    `json:"ad_id"`
	BuyerID       string    `json:"buyer_id"`
	SellerID      string    `json:"seller_id"`
	Status        string    `json:"status"`
	BuyerUsername string    `json:"buyer_username,omitempty"`
	AdTitle       string    `json:"ad_title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Report represents a user report, either general or against an ad
type Report struct {
	ID             string    `json:"id"`
	ReporterID     string    `json:"reporter_id"`
	AdID           *string   `json:"ad_id,omitempty"`
	ReportedUserID *string   `json:"reported_user_id,omitempty"`
	Reason         string    `json:"reason"`
	Description    *string   `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
