package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsevents"
	"github.com/aws/aws-cdk-go/awscdk/v2/awseventstargets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type SpacetravelingStackProps struct {
	awscdk.StackProps
	// Prismic の接続情報 (デプロイ時の環境変数から渡す)
	PrismicEndpoint    string
	PrismicAccessToken string
}

func NewSpacetravelingStack(scope constructs.Construct, id string, props *SpacetravelingStackProps) awscdk.Stack {
	if props == nil {
		props = &SpacetravelingStackProps{}
	}
	sprops := props.StackProps
	stack := awscdk.NewStack(scope, &id, &sprops)

	// S3: 生成済みページの格納用
	bucket := awss3.NewBucket(stack, jsii.String("BlogPages"), &awss3.BucketProps{})

	environment := &map[string]*string{
		"ENV":                  jsii.String("prod"),
		"PAGES_BUCKET":         bucket.BucketName(),
		"PRISMIC_API_ENDPOINT": jsii.String(props.PrismicEndpoint),
		"PRISMIC_ACCESS_TOKEN": jsii.String(props.PrismicAccessToken),
		"REVALIDATE":           jsii.String("24h"),
	}

	// Lambda: 事前にビルドしたZIPアセットを使用
	fn := awslambda.NewFunction(stack, jsii.String("BlogApi"), &awslambda.FunctionProps{
		Runtime:     awslambda.Runtime_PROVIDED_AL2(),
		Handler:     jsii.String("bootstrap"),
		Code:        awslambda.Code_FromAsset(jsii.String("dist/lambda/blog.zip"), nil),
		Environment: environment,
		Timeout:     awscdk.Duration_Seconds(jsii.Number(29)),
	})
	bucket.GrantReadWrite(fn, nil)

	// Lambda: 全ページの再生成
	revalidate := awslambda.NewFunction(stack, jsii.String("BlogRevalidate"), &awslambda.FunctionProps{
		Runtime:     awslambda.Runtime_PROVIDED_AL2(),
		Handler:     jsii.String("bootstrap"),
		Code:        awslambda.Code_FromAsset(jsii.String("dist/lambda/revalidate.zip"), nil),
		Environment: environment,
		Timeout:     awscdk.Duration_Minutes(jsii.Number(5)),
	})
	bucket.GrantReadWrite(revalidate, nil)

	// EventBridge: 24 時間ごとに再生成
	rule := awsevents.NewRule(stack, jsii.String("BlogRevalidateSchedule"), &awsevents.RuleProps{
		Schedule: awsevents.Schedule_Rate(awscdk.Duration_Hours(jsii.Number(24))),
	})
	rule.AddTarget(awseventstargets.NewLambdaFunction(revalidate, nil))

	// API Gateway: /, /post/{uid}, /api/posts
	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("BlogApiGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: fn,
	})
	awscdk.NewCfnOutput(stack, jsii.String("BlogUrl"), &awscdk.CfnOutputProps{
		Value: api.Url(),
	})

	return stack
}

func main() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)

	NewSpacetravelingStack(app, "SpacetravelingStack", &SpacetravelingStackProps{
		StackProps: awscdk.StackProps{
			Env: env(),
		},
		PrismicEndpoint:    os.Getenv("PRISMIC_API_ENDPOINT"),
		PrismicAccessToken: os.Getenv("PRISMIC_ACCESS_TOKEN"),
	})

	app.Synth(nil)
}

// 未指定なら環境非依存のスタック
func env() *awscdk.Environment {
	if os.Getenv("CDK_DEFAULT_ACCOUNT") == "" {
		return nil
	}
	return &awscdk.Environment{
		Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
		Region:  jsii.String(os.Getenv("CDK_DEFAULT_REGION")),
	}
}
