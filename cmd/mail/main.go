package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/config"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

func main() {
	/**********************************************
	 * logger の作成
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 設定の読み込み
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定を読み込めません", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * メールクライアントの作成
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("メールクライアントを作成できません", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// メールサーバーに接続できるか確認する
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("メールサーバーに接続できません", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ への接続
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ に接続できません", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// チャネルを開く
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("チャネルを開けません", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// キューを宣言する
	q, err := ch.QueueDeclare(
		"email_queue", // キュー名
		true,          // 永続化するか
		false,         // 自動削除するか。false にしておくと消費者がいない間もキューが残る
		false,         // 排他にするか
		false,         // no-wait。false にして RabbitMQ の応答を待つ
		nil,           // 追加引数
	)
	if err != nil {
		logger.Error("キューを宣言できません", slog.String("error", err.Error()))
		return
	}

	// CTRL+C を監視する
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// メッセージを消費する
	msgs, err := ch.Consume(
		q.Name, // キュー
		"",     // 消費者タグ。空なら RabbitMQ が自動で割り当てる
		false,  // 自動 ack しない
		false,  // 排他にするか
		false,  // no-local。RabbitMQ は対応していないので false
		false,  // no-wait。RabbitMQ の応答を待つ
		nil,    // 追加引数
	)
	if err != nil {
		logger.Error("メッセージを消費できません", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// goroutine を止めるためのコンテキスト
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("メッセージを受信しました", slog.String("message", string(msg.Body)))
				// メール情報をデシリアライズする
				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("メール情報のデシリアライズに失敗しました", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// メールを組み立てる
				mail := mail.NewMsg()
				if err := mail.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("メールの差出人を設定できません", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := mail.To(mailMessage.To); err != nil {
					logger.Error("メールの宛先を設定できません", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// メールの種類ごとに本文を組み立てる
				switch mailMessage.Type {
				case "weekly_roster":
					// Data を型付きで読み直す
					var envelope struct {
						Data domain.WeeklyRosterMailData `json:"data"`
					}
					if err := json.Unmarshal(msg.Body, &envelope); err != nil {
						logger.Error("メールデータのデシリアライズに失敗しました", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}

					tmpl, err := template.ParseFiles("./templates/weekly_roster_email.html")
					if err != nil {
						logger.Error("メールテンプレートを解析できません", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := mail.SetBodyHTMLTemplate(tmpl, envelope.Data); err != nil {
						logger.Error("メール本文を設定できません", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					mail.Subject(fmt.Sprintf("聖餐担当表 - %s", envelope.Data.DateKey))
				default:
					logger.Error("対応していないメールの種類です", slog.String("type", mailMessage.Type))
					_ = msg.Nack(false, false)
					continue
				}

				// メールを送信する
				if err := client.DialAndSend(mail); err != nil {
					logger.Error("メールの送信に失敗しました", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // メッセージをキューに戻す
					continue
				}

				// メッセージを確認する
				_ = msg.Ack(false)
			}
		}
	}()

	// CTRL+C を待つ
	logger.Info("メッセージを待っています...（CTRL+C で終了）")
	<-sigChan

	// 正常に終了する
	slog.Info("mail worker を停止しています...")
	cancel()
	wg.Wait() // すべての goroutine の終了を待つ
	slog.Info("mail worker を正常に停止しました")
}
