package db

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

// Repo is the Postgres backend. A Repo handed to an Atomically callback is bound
// to the transaction and locks the asset and loan rows it reads.
type Repo struct {
	DB     *gorm.DB
	locked bool
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func (r *Repo) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repo) Atomically(ctx context.Context, fn func(tx ledger.Store) error) error {
	if r.locked {
		return fn(r)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx, locked: true})
	})
}

// forUpdate 事务内读取时加行锁
func (r *Repo) forUpdate(ctx context.Context) *gorm.DB {
	q := r.DB.WithContext(ctx)
	if r.locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// checkID 主键列是 uuid 类型，非法字符串直接按不存在处理，避免 Postgres 报语法错误
func checkID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ledger.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// orNil 空过滤条件视为合法 ID
func orNil(id string) string {
	if id == "" {
		return uuid.Nil.String()
	}
	return id
}

func notFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ledger.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// save 新记录分配 UUID 后 INSERT，否则 upsert
func save(ctx context.Context, db *gorm.DB, id *string, value any) error {
	if *id == "" {
		*id = uuid.NewString()
		return db.WithContext(ctx).Create(value).Error
	}
	return db.WithContext(ctx).Save(value).Error
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, entity, id string) error {
	if err := checkID(entity, id); err != nil {
		return err
	}
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ledger.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func likePattern(q string) string { return "%" + strings.ToLower(strings.TrimSpace(q)) + "%" }

// Users

func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	// 用数据库时间更准，且避免并发覆盖：NOW() + 计数自增
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (r *Repo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(username)).First(&u).Error; err != nil {
		return nil, notFound(err, "user", username)
	}
	return &u, nil
}

func (r *Repo) SaveUser(ctx context.Context, u *models.User) error {
	return save(ctx, r.DB, &u.ID, u)
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// 列表（分页 + 关键词，关键词匹配用户名/显示名）
func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (models.UserPage, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := likePattern(q)
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return models.UserPage{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return models.UserPage{}, err
	}
	return models.UserPage{Users: users, Total: total}, nil
}

func (r *Repo) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, &models.User{}, "user", id)
}
