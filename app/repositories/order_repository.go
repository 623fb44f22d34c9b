package repositories

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// OrderRepository handles database operations for orders.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order inside a transaction so a failed insert never
// leaves a half-written row behind an already uploaded file.
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.Transaction(func(tx *orm.Query) error {
		return tx.Create(order)
	})
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).Where("id = ?", id).First(&order)
	return order, err
}

// FindByRazorpayOrderID looks up the order bound to a gateway order id.
func (r *OrderRepository) FindByRazorpayOrderID(rzpID string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).Where("razorpay_order_id = ?", rzpID).First(&order)
	return order, err
}

// ForUser returns every order the user participates in, as buyer or as
// influencer, newest first.
func (r *OrderRepository) ForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ? OR influencer_id = ?", userID, userID).
		Order("created_at DESC").
		Get(&orders)
	return orders, err
}

// Update persists changes to an existing order.
func (r *OrderRepository) Update(order *models.Order) error {
	return orm.DB().Save(order)
}

// Delete removes the order row.
func (r *OrderRepository) Delete(order *models.Order) error {
	return orm.DB().Delete(order)
}
