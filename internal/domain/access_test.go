package domain

import "testing"

func TestAccessPredicates(t *testing.T) {
	customer := Actor{ID: 1, Role: RoleCustomer}
	business := Actor{ID: 2, Role: RoleBusiness}
	admin := Actor{ID: 3, Role: RoleAdmin}

	if CanCreateOffer(customer) || !CanCreateOffer(business) || CanCreateOffer(admin) {
		t.Fatal("only business users may create offers")
	}
	if !CanCreateOrder(customer) || CanCreateOrder(business) {
		t.Fatal("only customers may place orders")
	}
	if !CanCreateReview(customer) || CanCreateReview(business) || CanCreateReview(admin) {
		t.Fatal("only customers may write reviews")
	}
	if CanDeleteOrder(customer) || CanDeleteOrder(business) || !CanDeleteOrder(admin) {
		t.Fatal("only admins may delete orders")
	}
}

func TestCanModifyOffer_OwnerOnly(t *testing.T) {
	offer := &Offer{ID: 10, UserID: 2}

	if !CanModifyOffer(Actor{ID: 2, Role: RoleBusiness}, offer) {
		t.Fatal("owner must be allowed")
	}
	if CanModifyOffer(Actor{ID: 5, Role: RoleBusiness}, offer) {
		t.Fatal("other business users must be rejected")
	}
}

func TestCanUpdateOrderStatus_BusinessPartyOnly(t *testing.T) {
	order := &Order{ID: 1, CustomerUserID: 1, BusinessUserID: 2}

	if !CanUpdateOrderStatus(Actor{ID: 2, Role: RoleBusiness}, order) {
		t.Fatal("order's business party must be allowed")
	}
	if CanUpdateOrderStatus(Actor{ID: 1, Role: RoleCustomer}, order) {
		t.Fatal("the customer party must be rejected")
	}
	if CanUpdateOrderStatus(Actor{ID: 7, Role: RoleBusiness}, order) {
		t.Fatal("unrelated business users must be rejected")
	}
}

func TestCanModifyReview_ReviewerOnly(t *testing.T) {
	review := &Review{ID: 1, ReviewerID: 4, BusinessUserID: 2}

	if !CanModifyReview(Actor{ID: 4, Role: RoleCustomer}, review) {
		t.Fatal("reviewer must be allowed")
	}
	if CanModifyReview(Actor{ID: 2, Role: RoleBusiness}, review) {
		t.Fatal("the reviewed business must be rejected")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"customer", "business"} {
		if _, ok := ParseRole(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	// Admin accounts are flagged via is_staff, never self-registered.
	for _, invalid := range []string{"admin", "", "Customer"} {
		if _, ok := ParseRole(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"in_progress", "completed", "cancelled"} {
		if _, ok := ParseOrderStatus(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"shipped", "", "done"} {
		if _, ok := ParseOrderStatus(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}
