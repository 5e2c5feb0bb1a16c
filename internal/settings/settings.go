package settings

import (
	"context"
	"sync"
)

// SocialLinks of the shop, shown in the storefront footer.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

// StoreSettings is the single settings document of the shop.
type StoreSettings struct {
	Name             string      `json:"name"`
	NameAr           string      `json:"name_ar,omitempty"`
	WhatsAppNumber   string      `json:"whatsapp_number"`
	Address          string      `json:"address"`
	AddressAr        string      `json:"address_ar,omitempty"`
	Email            string      `json:"email"`
	SocialLinks      SocialLinks `json:"social_links"`
	Logo             string      `json:"logo,omitempty"`
	WelcomeMessage   string      `json:"welcome_message"`
	WelcomeMessageAr string      `json:"welcome_message_ar,omitempty"`
}

// Store reads and writes the settings document.
type Store interface {
	Get(ctx context.Context) (*StoreSettings, error)
	Put(ctx context.Context, s StoreSettings) error
}

// Defaults returned before the shopkeeper saves anything.
func Defaults() StoreSettings {
	return StoreSettings{
		Name:           "Ma Boutique",
		NameAr:         "متجري",
		WhatsAppNumber: "+212600000000",
		Address:        "123 Rue Mohammed V, Casablanca",
		AddressAr:      "123 شارع محمد الخامس، الدار البيضاء",
		Email:          "contact@maboutique.com",
		SocialLinks: SocialLinks{
			Facebook:  "https://facebook.com/maboutique",
			Instagram: "https://instagram.com/maboutique",
		},
		WelcomeMessage:   "Bienvenue dans notre boutique ! Découvrez nos produits de qualité.",
		WelcomeMessageAr: "مرحباً بكم في متجرنا! اكتشفوا منتجاتنا عالية الجودة.",
	}
}

// MemoryStore keeps the settings in memory, starting from the defaults.
type MemoryStore struct {
	mu       sync.RWMutex
	settings StoreSettings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: Defaults()}
}

func (m *MemoryStore) Get(ctx context.Context) (*StoreSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := m.settings
	return &copied, nil
}

func (m *MemoryStore) Put(ctx context.Context, s StoreSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = s
	return nil
}
