package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/analysis/analysisapi"
	"github.com/resumatch/resumatch/analysis/analysisinfra"
	"github.com/resumatch/resumatch/analysis/analysissrv"
	"github.com/resumatch/resumatch/analysis/worker"
	"github.com/resumatch/resumatch/internal/ai/embeddings"
	"github.com/resumatch/resumatch/internal/ai/ner"
	"github.com/resumatch/resumatch/pkg/fsx"
	"github.com/resumatch/resumatch/pkg/fsx/fsxlocal"
	"github.com/resumatch/resumatch/pkg/fsx/fsxs3"
	"github.com/resumatch/resumatch/pkg/logx"
	"github.com/resumatch/resumatch/vocabulary"
	"github.com/resumatch/resumatch/vocabulary/vocabinfra"
	"github.com/resumatch/resumatch/vocabulary/vocabsrv"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Reference data
	Vocabulary  *vocabulary.Vocabulary
	Normalizer  *vocabulary.Normalizer
	VectorIndex vocabulary.VectorIndex

	// AI adapters
	Embedder   analysis.Embedder
	Recognizer analysis.EntityRecognizer

	// Services
	AnalysisService *analysissrv.Service
	AsyncService    *analysissrv.AsyncService
	Worker          *worker.AnalysisWorker

	// API Handlers
	AnalysisHandlers *analysisapi.AnalysisHandlers
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initVocabulary()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     getenv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 2. Database Connection (only needed for the pgvector index)
	if indexBackend() == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_USER", "postgres"),
			os.Getenv("DB_PASS"),
			getenv("DB_NAME", "resumatch"),
		)
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		c.DB = db
	}

	// 3. File storage for async uploads: S3 when a bucket is
	// configured, local disk otherwise
	if bucket := os.Getenv("AWS_BUCKET"); bucket != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.S3Client = s3.NewFromConfig(cfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, bucket, "resumatch")
	} else {
		root := getenv("STORAGE_DIR", "./data/uploads")
		c.FileSystem = fsxlocal.NewLocalFileSystem(root)
		logx.Infof("AWS_BUCKET not set, storing uploads under %s", root)
	}
}

func (c *Container) initVocabulary() {
	path := getenv("VOCABULARY_PATH", "configs/vocabulary.yaml")
	vocab, err := vocabulary.Load(path)
	if err != nil {
		logx.Fatalf("Failed to load vocabulary from %s: %v", path, err)
	}
	c.Vocabulary = vocab
	c.Normalizer = vocabulary.NewNormalizer(vocab)
	logx.Infof("Vocabulary %s loaded: %d skills, %d roles", vocab.Version, len(vocab.Skills), len(vocab.Roles))

	switch indexBackend() {
	case "postgres":
		c.VectorIndex = vocabinfra.NewPostgresVectorIndex(c.DB)
	case "memory":
		snapshot := getenv("VECTOR_INDEX_SNAPSHOT", "data/index.json")
		idx, err := vocabinfra.LoadSnapshot(snapshot)
		if err != nil {
			logx.Fatalf("Failed to load index snapshot %s: %v", snapshot, err)
		}
		c.VectorIndex = idx
	default:
		logx.Fatalf("Unknown VECTOR_INDEX backend %q", indexBackend())
	}
}

func (c *Container) initServices() {
	// Embeddings with Redis read-through cache
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logx.Warn("OPENAI_API_KEY is not set, embedding calls will fail")
	}
	generator := embeddings.NewGenerator(apiKey)
	c.Embedder = embeddings.NewCachedGenerator(generator, c.Redis, embedCacheTTL())

	// Entity recognizer: deterministic lexicon by default, LLM opt-in
	switch getenv("NER_PROVIDER", "lexicon") {
	case "openai":
		c.Recognizer = ner.NewOpenAIRecognizer(apiKey, os.Getenv("NER_MODEL"))
	default:
		c.Recognizer = ner.NewLexiconRecognizer(c.Vocabulary)
	}

	matcher := analysissrv.NewMatcher(c.VectorIndex, c.Embedder, similarityThreshold())
	classifier := analysissrv.NewRoleClassifier(c.VectorIndex, c.Embedder)
	c.AnalysisService = analysissrv.NewService(c.Recognizer, c.Normalizer, matcher, classifier)

	// Async pipeline
	queue := analysisinfra.NewRedisQueue(c.Redis, getenv("QUEUE_NAME", "analysis:jobs"))
	store := analysisinfra.NewRedisJobStore(c.Redis, jobTTL())
	c.AsyncService = analysissrv.NewAsyncService(c.AnalysisService, store, queue, c.FileSystem)
	c.Worker = worker.NewAnalysisWorker(c.AsyncService, queue, workerCount())

	c.AnalysisHandlers = analysisapi.NewAnalysisHandlers(c.AnalysisService, c.AsyncService)
}

// VerifyIndex refuses to serve against an unreachable or empty index.
func (c *Container) VerifyIndex(ctx context.Context) {
	count, err := c.VectorIndex.Count(ctx)
	if err != nil {
		logx.Fatalf("Vector index unreachable: %v", err)
	}
	if count == 0 {
		logx.Fatalf("Vector index is empty, run 'build-index' first")
	}
	logx.Infof("Vector index ready: %d entries", count)
}

// BuildIndex embeds the vocabulary and writes the vector index. Run
// offline whenever the vocabulary changes.
func (c *Container) BuildIndex(ctx context.Context) error {
	var builder vocabulary.IndexBuilder

	switch indexBackend() {
	case "postgres":
		pg := vocabinfra.NewPostgresVectorIndex(c.DB)
		if err := pg.EnsureSchema(ctx, embeddings.Dimension); err != nil {
			return err
		}
		builder = pg
	case "memory":
		builder = vocabinfra.NewMemoryVectorIndex(nil)
	}

	indexer := vocabsrv.NewIndexer(c.Vocabulary, c.Embedder, builder)
	if err := indexer.BuildIndex(ctx); err != nil {
		return err
	}

	if mem, ok := builder.(*vocabinfra.MemoryVectorIndex); ok {
		snapshot := getenv("VECTOR_INDEX_SNAPSHOT", "data/index.json")
		if err := mem.SaveSnapshot(snapshot); err != nil {
			return err
		}
		logx.Infof("Index snapshot written to %s", snapshot)
	}
	return nil
}

func indexBackend() string {
	return getenv("VECTOR_INDEX", "postgres")
}

func similarityThreshold() float64 {
	raw := os.Getenv("MATCH_SIMILARITY_THRESHOLD")
	if raw == "" {
		return analysissrv.DefaultSimilarityThreshold
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logx.Warnf("Invalid MATCH_SIMILARITY_THRESHOLD %q, using default", raw)
		return analysissrv.DefaultSimilarityThreshold
	}
	return v
}

func embedCacheTTL() time.Duration {
	hours, err := strconv.Atoi(getenv("EMBED_CACHE_TTL_HOURS", "168"))
	if err != nil || hours <= 0 {
		return 168 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

func jobTTL() time.Duration {
	hours, err := strconv.Atoi(getenv("JOB_TTL_HOURS", "24"))
	if err != nil || hours <= 0 {
		return analysisinfra.DefaultJobTTL
	}
	return time.Duration(hours) * time.Hour
}

func workerCount() int {
	n, err := strconv.Atoi(getenv("WORKER_COUNT", "4"))
	if err != nil || n <= 0 {
		return 4
	}
	return n
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
