package domain

type CreateProductRequest struct {
	SKU          string   `json:"sku"           binding:"required,max=50"`
	Name         string   `json:"name"          binding:"required,max=200"`
	InitialPrice *float64 `json:"initial_price" binding:"required,gte=0"`
	Type         Kind     `json:"type"          binding:"omitempty,oneof=regular perishable"`
	ExpiryDate   *Date    `json:"expiry_date"   binding:"required_if=Type perishable"`
}

type ProductResponse struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Type       Kind    `json:"type"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"final_price"`
	ExpiryDate *Date   `json:"expiry_date,omitempty"`
}

type TotalValueResponse struct {
	TotalValue float64 `json:"total_value"`
}

func NewProductResponse(item Item) ProductResponse {
	resp := ProductResponse{
		SKU:        item.SKU(),
		Name:       item.Name(),
		Type:       item.Kind(),
		Price:      item.Price(),
		FinalPrice: item.FinalPrice(),
	}
	if expiry, ok := item.Expiry(); ok {
		resp.ExpiryDate = &expiry
	}
	return resp
}

func NewProductResponses(items []Item) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewProductResponse(item))
	}
	return out
}
