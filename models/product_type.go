package models

// ProductType is the garment/product category a template identifier belongs to
type ProductType string

const (
	ProductUnclassified ProductType = ""
	ProductTee          ProductType = "tee"
	ProductHoodie       ProductType = "hoodie"
	ProductHoodieBack   ProductType = "hoodieback"
	ProductSweatshirt   ProductType = "sweatshirt"
	ProductCoachJacket  ProductType = "coachjacket"
	ProductOnesie       ProductType = "onesie"
	ProductLunchbox     ProductType = "lunchbox"
	ProductSportBag     ProductType = "sportbag"
	ProductHat          ProductType = "hat"
	ProductTote         ProductType = "tote"
)

// String returns the product type name, "unclassified" for the zero value
func (p ProductType) String() string {
	if p == ProductUnclassified {
		return "unclassified"
	}
	return string(p)
}
