package pricing

import (
	"fmt"
	"sort"
)

// Catalog is the read-only menu snapshot supplied by the caller. The
// composer only consults it for existence; prices travel on the selections
// themselves, frozen at cart-build time.
type Catalog interface {
	HasItem(menuItemID string) bool
}

// unknownRestaurantID is a data-quality guard for selections arriving
// without a restaurant: they still group together instead of vanishing.
const unknownRestaurantID = "unknown"

// OrderComposer groups raw selections by session and restaurant and resolves
// each line's add-ons into priced entries. Pure transform: no I/O, no state.
type OrderComposer struct{}

func NewOrderComposer() *OrderComposer {
	return &OrderComposer{}
}

// Compose turns a pricing request into restaurant order groups. Group order
// is deterministic: sessions keep request order, restaurants sort by id
// within a session.
func (oc *OrderComposer) Compose(req *PricingRequest, catalog Catalog) ([]RestaurantOrderGroup, error) {
	var groups []RestaurantOrderGroup

	total := 0
	for _, session := range req.Sessions {
		total += len(session.Selections)
	}
	if total == 0 {
		return nil, ErrEmptyOrder
	}

	for _, session := range req.Sessions {
		byRestaurant := make(map[string]*RestaurantOrderGroup)
		var order []string

		for _, sel := range session.Selections {
			if sel.Quantity <= 0 {
				return nil, &InvalidSelectionError{MenuItemID: sel.MenuItemID, Reason: "quantity must be positive"}
			}
			if !catalog.HasItem(sel.MenuItemID) {
				return nil, &LineItemNotFoundError{MenuItemID: sel.MenuItemID}
			}

			restaurantID := sel.RestaurantID
			if restaurantID == "" {
				restaurantID = unknownRestaurantID
			}

			group, ok := byRestaurant[restaurantID]
			if !ok {
				group = &RestaurantOrderGroup{
					SessionID:           session.ID,
					RestaurantID:        restaurantID,
					RestaurantName:      sel.RestaurantName,
					SpecialInstructions: req.SpecialInstructions[restaurantID],
				}
				byRestaurant[restaurantID] = group
				order = append(order, restaurantID)
			}

			line := composeLine(sel)
			group.Lines = append(group.Lines, line)
			group.SubtotalPence += line.TotalPence
		}

		sort.Strings(order)
		for _, id := range order {
			groups = append(groups, *byRestaurant[id])
		}
	}

	return groups, nil
}

// composeLine prices one selection. Add-ons contribute strictly
// unitPence × quantity: the feeds-per-unit and catering-unit display
// multipliers never reach price math.
func composeLine(sel MenuItemSelection) ComposedLine {
	unit := sel.EffectiveUnitPence()

	var addons int64
	for _, a := range sel.Addons {
		addons += a.UnitPence * int64(a.Quantity)
	}

	return ComposedLine{
		Selection:  sel,
		UnitPence:  unit,
		AddonPence: addons,
		TotalPence: unit*int64(sel.Quantity) + addons,
	}
}

// ServesLabel renders the display-only "serves N people" text for a
// selection, or "" when the menu item carries no feeds data.
func ServesLabel(sel MenuItemSelection) string {
	if sel.FeedsPerUnit <= 0 {
		return ""
	}
	return fmt.Sprintf("serves %d people", sel.FeedsPerUnit*sel.Quantity)
}
