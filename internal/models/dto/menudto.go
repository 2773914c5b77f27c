package dto

type MenuResponseDTO struct {
	Categories []MenuCategoryDTO `json:"categories"`
}

type MenuCategoryDTO struct {
	Name  string        `json:"name"`
	Items []MenuItemDTO `json:"items"`
}

type MenuItemDTO struct {
	ItemName  string  `json:"item_name"`
	UnitPrice float64 `json:"unit_price"`
}
