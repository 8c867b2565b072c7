package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmbruno/Ananda/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Pool consumes email jobs from Redis with a fixed number of goroutines.
type Pool struct {
	rdb    *redis.Client
	mailer *infra.Mailer
	size   int
	wg     sync.WaitGroup
}

func NewPool(rdb *redis.Client, mailer *infra.Mailer, size int) *Pool {
	if size <= 0 {
		size = 3
	}
	return &Pool{rdb: rdb, mailer: mailer, size: size}
}

// Start launches the workers. They exit when ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("pool de emails iniciado")
}

// Wait blocks until every worker has drained.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Short timeout so cancellation is noticed promptly.
		res, err := p.rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("error leyendo la cola de emails")
			time.Sleep(time.Second)
			continue
		}
		if len(res) != 2 {
			continue
		}

		var job EmailJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			log.Error().Err(err).Int("worker", id).Msg("payload de email invalido, descartado")
			continue
		}
		p.process(ctx, id, job)
	}
}

func (p *Pool) process(ctx context.Context, workerID int, job EmailJob) {
	var err error
	switch job.Type {
	case jobPasswordReset:
		err = p.mailer.SendPasswordReset(job.To, job.ResetURL, job.Nombre)
	case jobPasswordChanged:
		err = p.mailer.SendPasswordChanged(job.To, job.Nombre)
	default:
		err = fmt.Errorf("tipo de job desconocido: %s", job.Type)
	}

	if err != nil {
		log.Error().Err(err).
			Int("worker", workerID).
			Str("tipo", job.Type).
			Str("destinatario", job.To).
			Msg("fallo el envio de email")
		p.toDLQ(ctx, job, err)
		return
	}

	log.Info().
		Int("worker", workerID).
		Str("tipo", job.Type).
		Str("destinatario", job.To).
		Msg("email enviado")
}

func (p *Pool) toDLQ(ctx context.Context, job EmailJob, cause error) {
	dl := DeadLetter{Job: job, Reason: cause.Error(), FailedAt: time.Now()}
	payload, err := json.Marshal(dl)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo serializar el dead letter")
		return
	}
	if err := p.rdb.LPush(ctx, QueueDLQ, payload).Err(); err != nil {
		log.Error().Err(err).Msg("no se pudo escribir en la DLQ")
	}
}
