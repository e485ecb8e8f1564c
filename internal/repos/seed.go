package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	applog "onlinestore/internal/log"
)

// Seed inserts demo catalog data when the store is empty and ensures the
// demo accounts exist. Safe to run on every start.
func Seed(db *sqlx.DB) error {
	if err := seedCatalogIfEmpty(db); err != nil {
		return err
	}
	return seedUsers(db)
}

func seedCatalogIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.L().Info("seed.catalog")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`INSERT INTO categories(id,name) VALUES
		  (1,'Phones'),
		  (2,'Laptops'),
		  (3,'Accessories')`,
		`INSERT INTO suppliers(id,name,quantity) VALUES
		  (1,'Saigon Distribution',120),
		  (2,'Hanoi Electronics',40)`,
		`INSERT INTO products(category_id,supplier_id,name,description,price,stock,published) VALUES
		  (1,1,'Galaxy A55','6.6" AMOLED, 128GB',9490000,12,1),
		  (1,2,'iPhone 15','6.1", 128GB',19990000,5,1),
		  (2,2,'ThinkPad E14','Ryzen 5, 16GB RAM',17490000,3,1),
		  (3,1,'USB-C Charger 65W','GaN fast charger',590000,40,1),
		  (3,1,'Leather Case','Discontinued accessory',250000,0,0)`,
		`INSERT INTO vouchers(code,discount_percent,start_date,end_date,active) VALUES
		  ('WELCOME10',10,'2026-01-01','2099-12-31',1)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		Email, Name, Role, Hash string
	}
	mk := func(email, name, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{Email: email, Name: name, Role: role, Hash: string(h)}, err
	}

	var users []u
	for _, x := range [][4]string{
		{"alice@onlinestore.test", "Alice Nguyen", "USER", "Passw0rd!"},
		{"bob@onlinestore.test", "Bob Tran", "USER", "Passw0rd!"},
		{"admin@onlinestore.test", "Store Admin", "ADMIN", "Passw0rd!"},
	} {
		v, err := mk(x[0], x[1], x[2], x[3])
		if err != nil {
			return err
		}
		users = append(users, v)
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(email,full_name,password_hash,role)
			SELECT ?,?,?,?
			WHERE NOT EXISTS (SELECT 1 FROM users WHERE LOWER(email)=LOWER(?))
		`, x.Email, x.Name, x.Hash, x.Role, x.Email); err != nil {
			return err
		}
	}

	return tx.Commit()
}
