package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/shipment-tracker/internal/domain"
)

// Имена файлов справочников в каталоге данных.
const (
	UsersFile     = "users.json"
	ProductsFile  = "products.json"
	CustomersFile = "customers.json"
	OrdersFile    = "orders.json"
)

// JSONCatalog — справочники, загруженные один раз при старте.
// После загрузки только читается, поэтому блокировки не нужны.
type JSONCatalog struct {
	users     map[string]domain.User
	products  map[string]domain.Product
	customers map[string]domain.Customer
	orders    []domain.Order
}

// New строит каталог из готовых срезов; при повторяющихся именах побеждает первое.
func New(users []domain.User, products []domain.Product, customers []domain.Customer, orders []domain.Order) *JSONCatalog {
	c := &JSONCatalog{
		users:     make(map[string]domain.User, len(users)),
		products:  make(map[string]domain.Product, len(products)),
		customers: make(map[string]domain.Customer, len(customers)),
		orders:    orders,
	}
	for _, u := range users {
		if _, ok := c.users[u.Username]; !ok {
			c.users[u.Username] = u
		}
	}
	for _, p := range products {
		if _, ok := c.products[p.Name]; !ok {
			c.products[p.Name] = p
		}
	}
	for _, cu := range customers {
		if _, ok := c.customers[cu.Name]; !ok {
			c.customers[cu.Name] = cu
		}
	}
	return c
}

// LoadDir читает все четыре справочника из dir.
func LoadDir(dir string) (*JSONCatalog, error) {
	var (
		users     []domain.User
		products  []domain.Product
		customers []domain.Customer
		orders    []domain.Order
	)
	files := []struct {
		name string
		dst  any
	}{
		{UsersFile, &users},
		{ProductsFile, &products},
		{CustomersFile, &customers},
		{OrdersFile, &orders},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.dst); err != nil {
			return nil, err
		}
	}
	return New(users, products, customers, orders), nil
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return nil
}

func (c *JSONCatalog) ProductByName(name string) (domain.Product, bool) {
	p, ok := c.products[name]
	return p, ok
}

func (c *JSONCatalog) CustomerByName(name string) (domain.Customer, bool) {
	cu, ok := c.customers[name]
	return cu, ok
}

func (c *JSONCatalog) UserByName(username string) (domain.User, bool) {
	u, ok := c.users[username]
	return u, ok
}

// Orders возвращает исторические заказы для первичного построения отгрузок.
func (c *JSONCatalog) Orders() []domain.Order {
	return c.orders
}

var _ domain.Catalog = (*JSONCatalog)(nil)
