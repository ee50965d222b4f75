package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/config"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/repository"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "実行する操作 (1: ワードの名簿を登録, 2: ランダムなメンバーを登録, 3: 今後の担当表を生成)")
	flag.IntVar(&n, "n", 5, "登録するメンバー数または生成する週数")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 設定を読み込む
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定を読み込めません", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// データベース接続プールを作る
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("データベース接続プールを作成できません", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open は接続プールを作るだけで実際には接続しないので、明示的に ping する
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("データベースに接続できません", "error", err)
		return
	}

	// repository を作る
	repo := repository.NewRepository(cfg, dbpool)

	if err := repo.EnsureSchema(); err != nil {
		logger.Error("テーブルを作成できません", "error", err)
		return
	}

	// 操作を実行する
	switch op {
	case 0:
		slog.Error("操作が指定されていません")
	case 1:
		seed.SeedRealMembers(repo)
	case 2:
		if n <= 0 {
			slog.Error("メンバー数には正の数を指定してください")
		} else {
			seed.SeedRandomMembers(repo, n)
		}
	case 3:
		if n <= 0 {
			slog.Error("週数には正の数を指定してください")
		} else {
			seed.SeedWeeks(repo, n)
		}
	default:
		slog.Error("不明な操作です", "op", op)
	}
}
