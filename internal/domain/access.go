package domain

// Role and ownership checks as plain predicates over (caller, resource) pairs.

func CanCreateOffer(a Actor) bool { return a.IsBusiness() }

func CanModifyOffer(a Actor, o *Offer) bool { return a.ID == o.UserID }

func CanCreateOrder(a Actor) bool { return a.IsCustomer() }

// CanUpdateOrderStatus allows only the order's own business party.
func CanUpdateOrderStatus(a Actor, o *Order) bool {
	return a.IsBusiness() && a.ID == o.BusinessUserID
}

func CanDeleteOrder(a Actor) bool { return a.IsAdmin() }

func CanCreateReview(a Actor) bool { return a.IsCustomer() }

func CanModifyReview(a Actor, r *Review) bool { return a.ID == r.ReviewerID }

func CanEditProfile(a Actor, profileUserID int64) bool { return a.ID == profileUserID }
