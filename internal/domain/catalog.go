package domain

type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Product struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
}

type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
